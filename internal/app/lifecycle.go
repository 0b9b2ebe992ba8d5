package app

import (
	"sync"
	"time"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Lifecycle owns the table of live sessions. Every session is inserted
// once on open and removed at most once on close.
type Lifecycle struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*core.Session

	now   func() time.Time
	newID func() core.SessionID
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		sessions: make(map[core.SessionID]*core.Session),
		now:      time.Now,
		newID:    func() core.SessionID { return core.SessionID(uuid.NewString()) },
	}
}

// Open allocates a session with no room for an authenticated connection.
func (l *Lifecycle) Open(conn core.SignalConnection) *core.Session {
	sess := core.NewSession(l.newID(), conn, l.now())
	l.mu.Lock()
	l.sessions[sess.ID()] = sess
	l.mu.Unlock()
	log.Debug().Str("module", "app.lifecycle").Str("sid", string(sess.ID())).Msg("session opened")
	return sess
}

// Close removes the session. Only the first call for a given sid reports true.
func (l *Lifecycle) Close(sid core.SessionID) (*core.Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sess, ok := l.sessions[sid]
	if !ok {
		return nil, false
	}
	delete(l.sessions, sid)
	return sess, true
}

func (l *Lifecycle) Get(sid core.SessionID) (*core.Session, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sess, ok := l.sessions[sid]
	return sess, ok
}

func (l *Lifecycle) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// All returns a snapshot of the live sessions.
func (l *Lifecycle) All() []*core.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*core.Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s)
	}
	return out
}
