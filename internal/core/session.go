package core

import (
	"time"

	"github.com/dkeye/Rendezvous/internal/domain"
)

type SessionID string

// Session is the per-connection state. The room field is owned by
// RoomRegistry and only read or written under its lock.
type Session struct {
	id          SessionID
	conn        SignalConnection
	connectedAt time.Time

	room domain.RoomID
}

func NewSession(id SessionID, conn SignalConnection, connectedAt time.Time) *Session {
	return &Session{id: id, conn: conn, connectedAt: connectedAt}
}

func (s *Session) ID() SessionID            { return s.id }
func (s *Session) Signal() SignalConnection { return s.conn }
func (s *Session) ConnectedAt() time.Time   { return s.connectedAt }
