package app

import (
	"fmt"

	"github.com/dkeye/Rendezvous/internal/core"
	"github.com/dkeye/Rendezvous/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a recipient that could not take a frame.
type Policy interface {
	OnBackPressure(room domain.RoomID, member *core.Session) BackpressureAction
}

// DropPolicy skips the frame for that recipient only.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, *core.Session) BackpressureAction {
	return DropFrame
}

// KickPolicy also closes the recipient so it reconnects with a fresh queue.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.RoomID, *core.Session) BackpressureAction {
	return KickMember
}

// PolicyFor maps the "backpressure" config value to a Policy.
func PolicyFor(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
