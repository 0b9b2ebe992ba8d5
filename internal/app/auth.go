package app

import (
	"crypto/subtle"
	"errors"
)

var ErrUnauthorized = errors.New("unauthorized")

// Authenticator checks the credential presented during the handshake
// against the configured shared secret.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Verify compares presented byte-for-byte in constant time.
// An empty credential is always rejected.
func (a *Authenticator) Verify(presented string) error {
	if presented == "" || len(a.secret) == 0 {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(presented), a.secret) != 1 {
		return ErrUnauthorized
	}
	return nil
}
