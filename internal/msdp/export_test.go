package msdp

import (
	"context"
	"net"
)

// SetDialFunc replaces the session's dialer so tests can hand it an
// in-memory connection. Must be called before Run().
func (s *Session) SetDialFunc(dial func(ctx context.Context) (net.Conn, error)) {
	s.dialFunc = dial
}
