package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			mt := websocket.TextMessage
			if f.Binary {
				mt = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(mt, f.Data); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("ping failed")
				return
			}
		}
	}
}

// readPump owns the session: when it returns, the connection is gone and
// its cleanup runs.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sess *core.Session, c *WsSignalConn) {
	sid := sess.ID()
	defer func() {
		cancel()
		c.Close()
		ctl.Orch.OnClose(sid)
	}()

	pongWait := ctl.opts.pongWait()
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			logReadError(sid, err)
			return
		}
		if ctx.Err() != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.Orch.OnFrame(sess, core.Frame{Data: data, Binary: mt == websocket.BinaryMessage})
	}
}

func logReadError(sid core.SessionID, err error) {
	ev := log.Debug()
	msg := "connection closed"
	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		msg = "client closed"
	case errors.Is(err, websocket.ErrReadLimit):
		ev, msg = log.Warn(), "message exceeds read limit"
	case websocket.IsUnexpectedCloseError(err):
		ev, msg = log.Warn(), "unexpected close"
	}
	ev.Err(err).Str("module", "signal").Str("sid", string(sid)).Msg(msg)
}
