// Package bus relays room frames between relay instances over Redis pub/sub.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/metrics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrBusFull = errors.New("bus: publish queue full")

const queueSize = 1024

// Message is the wire form of one relayed frame.
type Message struct {
	Instance string `json:"instance"`
	Room     string `json:"room"`
	Binary   bool   `json:"binary,omitempty"`
	Data     []byte `json:"data"`
}

type RedisBus struct {
	rdb      *redis.Client
	channel  string
	instance string

	out       chan Message
	ready     chan struct{}
	readyOnce sync.Once
}

// NewRedisBus connects to redis and verifies connectivity.
func NewRedisBus(ctx context.Context, addr, channel string) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &RedisBus{
		rdb:      rdb,
		channel:  channel,
		instance: uuid.NewString(),
		out:      make(chan Message, queueSize),
		ready:    make(chan struct{}),
	}, nil
}

func (b *RedisBus) Instance() string { return b.instance }

// Ready is closed once the subscription is confirmed by the server.
func (b *RedisBus) Ready() <-chan struct{} { return b.ready }

// Publish queues f for the other instances without blocking the caller.
func (b *RedisBus) Publish(room domain.RoomID, f core.Frame) error {
	m := Message{Instance: b.instance, Room: string(room), Binary: f.Binary, Data: f.Data}
	select {
	case b.out <- m:
		return nil
	default:
		return ErrBusFull
	}
}

// Run subscribes to the channel and hands every foreign frame to deliver
// until ctx is cancelled. Queued frames are published from a single
// goroutine so their order is kept.
func (b *RedisBus) Run(ctx context.Context, deliver func(domain.RoomID, core.Frame)) error {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	b.readyOnce.Do(func() { close(b.ready) })
	log.Info().Str("module", "bus").Str("instance", b.instance).Str("channel", b.channel).Msg("subscribed")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.publishLoop(ctx) })
	g.Go(func() error { return b.receiveLoop(ctx, pubsub.Channel(), deliver) })
	return g.Wait()
}

func (b *RedisBus) publishLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-b.out:
			raw, err := json.Marshal(m)
			if err != nil {
				log.Error().Err(err).Str("module", "bus").Msg("encode")
				continue
			}
			if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warn().Err(err).Str("module", "bus").Str("room", m.Room).Msg("publish")
				continue
			}
			metrics.BusFrames.WithLabelValues("out").Inc()
		}
	}
}

func (b *RedisBus) receiveLoop(ctx context.Context, ch <-chan *redis.Message, deliver func(domain.RoomID, core.Frame)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.Debug().Err(err).Str("module", "bus").Msg("bad message")
				continue
			}
			if m.Instance == b.instance || m.Room == "" {
				continue
			}
			deliver(domain.RoomID(m.Room), core.Frame{Data: m.Data, Binary: m.Binary})
		}
	}
}

func (b *RedisBus) Close() error { return b.rdb.Close() }
