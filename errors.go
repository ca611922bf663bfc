package espclient

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed, the same small fixed set the
// session can land in regardless of which internal package produced the
// underlying error (connlimit_manager.go-style: a handful of named
// failure reasons rather than bare error strings scattered everywhere).
type Kind int

const (
	KindConfigError Kind = iota
	KindConnectError
	KindEncryptionRequired
	KindEncryptionMismatch
	KindCryptoError
	KindAuthFailure
	KindUnsupportedAPIVersion
	KindFrameError
	KindOversizeFrame
	KindProtocolError
	KindUnknownEntity
	KindTimeout
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindConfigError:
		return "config_error"
	case KindConnectError:
		return "connect_error"
	case KindEncryptionRequired:
		return "encryption_required"
	case KindEncryptionMismatch:
		return "encryption_mismatch"
	case KindCryptoError:
		return "crypto_error"
	case KindAuthFailure:
		return "auth_failure"
	case KindUnsupportedAPIVersion:
		return "unsupported_api_version"
	case KindFrameError:
		return "frame_error"
	case KindOversizeFrame:
		return "oversize_frame"
	case KindProtocolError:
		return "protocol_error"
	case KindUnknownEntity:
		return "unknown_entity"
	case KindTimeout:
		return "timeout"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with the Kind the session classified
// it as, so callers can branch on Kind without string matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error { return &Error{Kind: kind, Err: err} }

func newErrorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Permanent reports whether a reconnect attempt should not be made after
// this error: a wrong password, an incompatible device, a bad
// configuration, or a framing mode the device does not accept will fail
// identically on every retry. Crypto errors (which is how a wrong PSK
// surfaces) are not permanent.
func Permanent(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindAuthFailure, KindUnsupportedAPIVersion, KindConfigError,
		KindEncryptionRequired, KindEncryptionMismatch:
		return true
	default:
		return false
	}
}

// KindOf extracts the Kind from err, or KindProtocolError if err wasn't
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProtocolError
}
