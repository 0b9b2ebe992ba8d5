package orch

import (
	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/metrics"
	"github.com/rs/zerolog/log"
)

// OnFrame handles one inbound message. A subscribe directive updates
// membership first; then the frame, subscribe included, goes verbatim to
// every other member of the sender's room. Without a room it is dropped.
func (o *Orchestrator) OnFrame(sess *core.Session, f core.Frame) {
	metrics.FramesReceived.Inc()

	if env, ok := domain.ParseEnvelope(f.Data); ok {
		if room, ok := env.SubscribeTarget(); ok {
			o.Join(sess, room)
		}
	} else {
		log.Debug().Str("module", "app.orch").Str("sid", string(sess.ID())).Msg("opaque payload")
	}

	room, peers, ok := o.Rooms.Peers(sess)
	if !ok {
		log.Debug().Str("module", "app.orch").Str("sid", string(sess.ID())).Msg("no room, message dropped")
		return
	}
	o.fanOut(room, peers, f)

	if o.Bus != nil {
		if err := o.Bus.Publish(room, f); err != nil {
			log.Warn().Err(err).Str("module", "app.orch").Str("room", string(room)).Msg("bus publish")
		}
	}
}

// DeliverRemote fans out a frame that arrived from another instance to
// every local member of room.
func (o *Orchestrator) DeliverRemote(room domain.RoomID, f core.Frame) {
	members := o.Rooms.Members(room)
	if len(members) == 0 {
		return
	}
	metrics.BusFrames.WithLabelValues("in").Inc()
	o.fanOut(room, members, f)
}

func (o *Orchestrator) fanOut(room domain.RoomID, members []*core.Session, f core.Frame) {
	res := core.Broadcast(members, f)
	metrics.FramesDelivered.Add(float64(res.SendTo))
	if len(res.Dropped) == 0 {
		return
	}
	metrics.FramesDropped.Add(float64(len(res.Dropped)))
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			log.Warn().Str("module", "app.orch").Str("sid", string(slow.ID())).Str("room", string(room)).Msg("kicking slow member")
			slow.Signal().Close()
		case app.DropFrame:
		}
	}
}
