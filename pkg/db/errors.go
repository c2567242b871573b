package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/lib/pq"
)

// Kind classifies connection failures
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnconfigured means no usable connection string was given
	KindUnconfigured
	// KindUnreachable means the server could not be reached or the database does not exist
	KindUnreachable
	// KindAuthFailed means the server rejected the credentials
	KindAuthFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnconfigured:
		return "unconfigured"
	case KindUnreachable:
		return "unreachable"
	case KindAuthFailed:
		return "auth_failed"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *ConnError of the same kind
var (
	ErrUnconfigured = errors.New("database not configured")
	ErrUnreachable  = errors.New("database unreachable")
	ErrAuthFailed   = errors.New("database authentication failed")
)

// ConnError is returned by Connect
type ConnError struct {
	Kind Kind
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("connect (%s): %v", e.Kind, e.Err)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

func (e *ConnError) Is(target error) bool {
	switch target {
	case ErrUnconfigured:
		return e.Kind == KindUnconfigured
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrAuthFailed:
		return e.Kind == KindAuthFailed
	}
	return false
}

// KindOf returns the connection error kind of err, or KindUnknown
func KindOf(err error) Kind {
	var ce *ConnError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

func classify(err error) *ConnError {
	var ce *ConnError
	if errors.As(err, &ce) {
		return ce
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "28P01", "28000":
			return &ConnError{Kind: KindAuthFailed, Err: err}
		case "3D000":
			return &ConnError{Kind: KindUnreachable, Err: err}
		}
		return &ConnError{Kind: KindUnknown, Err: err}
	}

	var netErr net.Error
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.As(err, &dnsErr),
		errors.As(err, &netErr):
		return &ConnError{Kind: KindUnreachable, Err: err}
	}
	return &ConnError{Kind: KindUnknown, Err: err}
}
