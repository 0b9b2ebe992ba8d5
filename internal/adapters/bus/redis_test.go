package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	room  domain.RoomID
	frame core.Frame
}

type recorder struct {
	mu  sync.Mutex
	got []delivery
}

func (r *recorder) deliver(room domain.RoomID, f core.Frame) {
	r.mu.Lock()
	r.got = append(r.got, delivery{room: room, frame: f})
	r.mu.Unlock()
}

func (r *recorder) snapshot() []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery(nil), r.got...)
}

func startBus(t *testing.T, ctx context.Context, addr string, rec *recorder) *RedisBus {
	t.Helper()
	b, err := NewRedisBus(ctx, addr, "relay:test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Run(ctx, rec.deliver)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-b.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("bus never subscribed")
	}
	return b
}

func TestRedisBus_DeliversToOtherInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var recA, recB recorder
	a := startBus(t, ctx, mr.Addr(), &recA)
	b := startBus(t, ctx, mr.Addr(), &recB)
	assert.NotEqual(t, a.Instance(), b.Instance())

	payload := []byte{0x01, 0x02, 0xff}
	require.NoError(t, a.Publish("room-1", core.Frame{Data: payload, Binary: true}))
	require.NoError(t, a.Publish("room-1", core.Frame{Data: []byte("second")}))

	require.Eventually(t, func() bool { return len(recB.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	got := recB.snapshot()
	assert.Equal(t, domain.RoomID("room-1"), got[0].room)
	assert.Equal(t, payload, got[0].frame.Data)
	assert.True(t, got[0].frame.Binary)
	assert.Equal(t, "second", string(got[1].frame.Data))

	assert.Empty(t, recA.snapshot(), "own frames must not be delivered back")
}

func TestRedisBus_PublishQueueFull(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedisBus(context.Background(), mr.Addr(), "relay:test")
	require.NoError(t, err)
	defer b.Close()

	// Nothing drains the queue until Run starts.
	for i := 0; i < queueSize; i++ {
		require.NoError(t, b.Publish("r", core.Frame{Data: []byte("x")}))
	}
	assert.ErrorIs(t, b.Publish("r", core.Frame{Data: []byte("x")}), ErrBusFull)
}

func TestNewRedisBus_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisBus(ctx, "127.0.0.1:1", "relay:test")
	assert.Error(t, err)
}
