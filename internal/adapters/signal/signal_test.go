package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsPair returns the server side of a live websocket plus the client side.
func wsPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverSide <- ws
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case ws := <-serverSide:
		return ws, client
	case <-time.After(2 * time.Second):
		t.Fatal("no server side connection")
		return nil, nil
	}
}

func TestWsSignalConn_Backpressure(t *testing.T) {
	ws, _ := wsPair(t)
	c := &WsSignalConn{conn: ws, send: make(chan core.Frame, 2)}

	require.NoError(t, c.TrySend(core.Frame{Data: []byte("1")}))
	require.NoError(t, c.TrySend(core.Frame{Data: []byte("2")}))
	assert.ErrorIs(t, c.TrySend(core.Frame{Data: []byte("3")}), core.ErrBackpressure)
}

func TestWsSignalConn_CloseIsIdempotent(t *testing.T) {
	ws, client := wsPair(t)
	c := &WsSignalConn{conn: ws, send: make(chan core.Frame, 2)}

	c.Close()
	c.Close()
	assert.ErrorIs(t, c.TrySend(core.Frame{Data: []byte("x")}), core.ErrConnClosed)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err, "client must observe the close")
}

func TestWritePump_PreservesFrameType(t *testing.T) {
	ws, client := wsPair(t)
	ctl := &SignalWSController{opts: Options{PingPeriod: time.Minute, WriteWait: time.Second}}
	c := &WsSignalConn{conn: ws, send: make(chan core.Frame, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	go ctl.writePump(ctx, c)
	t.Cleanup(c.Close)
	t.Cleanup(cancel)

	require.NoError(t, c.TrySend(core.Frame{Data: []byte("text")}))
	require.NoError(t, c.TrySend(core.Frame{Data: []byte{0xde, 0xad}, Binary: true}))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	mt, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	assert.Equal(t, "text", string(data))

	mt, data, err = client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	assert.Equal(t, []byte{0xde, 0xad}, data)
}

func TestOptions_PongWaitExceedsPingPeriod(t *testing.T) {
	o := Options{PingPeriod: 54 * time.Second}
	assert.Equal(t, 60*time.Second, o.pongWait())
}
