// Package domain contains identifiers and the wire envelope, without transport or locking.
package domain

import "encoding/json"

// ActionSubscribe is the only discriminator the relay acts on.
const ActionSubscribe = "subscribe"

// Envelope is the structured view of a message. Anything else in the payload
// is left to the peers.
type Envelope struct {
	Type   string            `json:"type"`
	Action string            `json:"action"`
	Topics []json.RawMessage `json:"topics"`
}

// ParseEnvelope reports false when data is not a JSON object with the expected field types.
func ParseEnvelope(data []byte) (Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}

// Kind returns the discriminator, preferring "type" over "action".
func (e Envelope) Kind() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Action
}

// SubscribeTarget returns the room named by a subscribe envelope.
// Only the first topic counts; the rest are accepted and ignored.
func (e Envelope) SubscribeTarget() (RoomID, bool) {
	if e.Kind() != ActionSubscribe || len(e.Topics) == 0 {
		return "", false
	}
	var first string
	if err := json.Unmarshal(e.Topics[0], &first); err != nil || first == "" {
		return "", false
	}
	return RoomID(first), true
}
