package orch

import (
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Join moves sess into room, leaving its previous room if any.
func (o *Orchestrator) Join(sess *core.Session, room domain.RoomID) {
	res := o.Rooms.Join(sess, room)
	metrics.Subscribes.Inc()
	if res.Created {
		metrics.RoomsActive.Inc()
	}
	if res.Removed {
		metrics.RoomsActive.Dec()
	}

	ev := log.Info().Str("module", "app.orch").Str("sid", string(sess.ID())).Str("room", string(room))
	if res.Left != "" {
		ev = ev.Str("from_room", string(res.Left)).Bool("from_room_removed", res.Removed)
	}
	ev.Msg("joined room")
}

// Leave drops sess from its room, if it has one.
func (o *Orchestrator) Leave(sess *core.Session) {
	left, removed := o.Rooms.Leave(sess)
	if left == "" {
		return
	}
	if removed {
		metrics.RoomsActive.Dec()
	}
	log.Info().
		Str("module", "app.orch").
		Str("sid", string(sess.ID())).
		Str("room", string(left)).
		Bool("room_removed", removed).
		Msg("left room")
}
