package jwt

import (
	"time"
)

// Claims carries the verified identity a token asserts: the debugger
// session it grants access to.
type Claims struct {
	SessionID string
}

// Signer defines methods for signing and verifying JWT tokens.
type Signer interface {
	Sign(subject string, audience []string, duration time.Duration) (token string, err error)
	Verify(tokenString string) (*Claims, error)
}
