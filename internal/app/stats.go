package app

import (
	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
)

// Stats is a read-only projection of the room registry.
type Stats struct {
	TotalRooms   int
	TotalMembers int
	Rooms        map[domain.RoomID]int
}

// ProjectStats derives every figure from a single registry snapshot,
// so totals always match the per-room counts.
func ProjectStats(rooms *core.RoomRegistry) Stats {
	snap := rooms.Snapshot()
	st := Stats{TotalRooms: len(snap), Rooms: snap}
	for _, n := range snap {
		st.TotalMembers += n
	}
	return st
}
