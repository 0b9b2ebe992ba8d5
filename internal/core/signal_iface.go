package core

import "errors"

var (
	// ErrBackpressure means the recipient's outbound queue is full.
	ErrBackpressure = errors.New("backpressure")
	// ErrConnClosed means the recipient is closing or gone.
	ErrConnClosed = errors.New("connection closed")
)

// Frame is one relayed message. Data is never modified after receipt.
type Frame struct {
	Data   []byte
	Binary bool
}

// SignalConnection abstracts the outbound side of a messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking.
	TrySend(f Frame) error
	// Close is idempotent.
	Close()
}
