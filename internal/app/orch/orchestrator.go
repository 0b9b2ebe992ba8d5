package orch

import (
	"time"

	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
	"github.com/dkeye/Rendezvous/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Bus carries relayed frames to other relay instances.
type Bus interface {
	Publish(room domain.RoomID, f core.Frame) error
}

// Orchestrator ties the session table, the room registry and fan-out together.
// Transport adapters call OnOpen, OnFrame and OnClose; nothing else mutates membership.
type Orchestrator struct {
	Sessions  *app.Lifecycle
	Rooms     *core.RoomRegistry
	Policy    app.Policy
	Bus       Bus
	StartedAt time.Time
}

func New(sessions *app.Lifecycle, rooms *core.RoomRegistry, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Sessions:  sessions,
		Rooms:     rooms,
		Policy:    policy,
		StartedAt: time.Now(),
	}
}

// OnOpen registers an authenticated connection with no room.
func (o *Orchestrator) OnOpen(conn core.SignalConnection) *core.Session {
	sess := o.Sessions.Open(conn)
	metrics.ConnectionsActive.Inc()
	log.Info().Str("module", "app.orch").Str("sid", string(sess.ID())).Msg("connection opened")
	return sess
}

// OnClose releases the session's membership. Repeated calls for the same
// sid are ignored, so every close/error signal of a connection may call it.
func (o *Orchestrator) OnClose(sid core.SessionID) {
	sess, ok := o.Sessions.Close(sid)
	if !ok {
		return
	}
	o.Leave(sess)
	metrics.ConnectionsActive.Dec()
	log.Info().
		Str("module", "app.orch").
		Str("sid", string(sid)).
		Dur("connected_for", time.Since(sess.ConnectedAt())).
		Msg("connection closed")
}

// CloseAll closes every live transport. Cleanup still runs through OnClose
// once each adapter notices its connection is gone.
func (o *Orchestrator) CloseAll() int {
	sessions := o.Sessions.All()
	for _, sess := range sessions {
		sess.Signal().Close()
	}
	return len(sessions)
}

// Health is the payload of the read-only health endpoint.
type Health struct {
	Status       string                `json:"status"`
	TotalRooms   int                   `json:"totalRooms"`
	TotalClients int                   `json:"totalClients"`
	TotalMembers int                   `json:"totalMembers"`
	Rooms        map[domain.RoomID]int `json:"rooms"`
	Uptime       float64               `json:"uptime"`
}

func (o *Orchestrator) Health() Health {
	st := app.ProjectStats(o.Rooms)
	return Health{
		Status:       "ok",
		TotalRooms:   st.TotalRooms,
		TotalClients: o.Sessions.Len(),
		TotalMembers: st.TotalMembers,
		Rooms:        st.Rooms,
		Uptime:       time.Since(o.StartedAt).Seconds(),
	}
}
