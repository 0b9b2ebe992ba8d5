package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/app/orch"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// protocolHeader carries the shared credential. Browsers cannot set
// arbitrary headers on a WebSocket handshake, but they can set this one.
const protocolHeader = "Sec-WebSocket-Protocol"

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	WriteWait  time.Duration
	SendBuffer int
}

// pongWait must exceed PingPeriod so a healthy peer always answers in time.
func (o Options) pongWait() time.Duration { return o.PingPeriod * 10 / 9 }

type SignalWSController struct {
	Orch *orch.Orchestrator
	Auth *app.Authenticator
	opts Options
}

func NewSignalWSController(o *orch.Orchestrator, auth *app.Authenticator, opts Options) *SignalWSController {
	return &SignalWSController{Orch: o, Auth: auth, opts: opts}
}

// WsSignalConn is the outbound half of one websocket. Frames queue on send
// and are written by a single writePump goroutine.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal authenticates and upgrades one request. The credential is
// echoed back as the negotiated subprotocol, which browsers require.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	presented := c.GetHeader(protocolHeader)
	if err := ctl.Auth.Verify(presented); err != nil {
		metrics.ConnectionsRejected.Inc()
		log.Warn().Str("module", "signal").Str("remote", c.ClientIP()).Msg("rejected connection")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	header := http.Header{}
	header.Set(protocolHeader, presented)
	ws, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	metrics.ConnectionsAccepted.Inc()

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	sess := ctl.Orch.OnOpen(conn)
	log.Info().Str("module", "signal").Str("sid", string(sess.ID())).Str("path", c.Request.URL.Path).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}
