package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of a run
type ErrorKind string

const (
	KindConfig       ErrorKind = "config"
	KindResolution   ErrorKind = "resolution"
	KindStorage      ErrorKind = "storage"
	KindNotification ErrorKind = "notification"
)

var (
	ErrNoIPv4Address  = errors.New("no IPv4 address found")
	ErrInvalidDriver  = errors.New("invalid database driver")
	ErrMissingSetting = errors.New("missing required setting")
)

// Error represents a classified failure
type Error struct {
	Kind ErrorKind // Failure class
	Op   string    // Operation that failed
	Err  error     // Original error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new classified error
func NewError(kind ErrorKind, op string, err error) error {
	return &Error{
		Kind: kind,
		Op:   op,
		Err:  err,
	}
}

// ConfigError wraps err as a configuration failure
func ConfigError(op string, err error) error {
	return NewError(KindConfig, op, err)
}

// ResolutionError wraps err as an address resolution failure
func ResolutionError(op string, err error) error {
	return NewError(KindResolution, op, err)
}

// StorageError wraps err as a storage failure
func StorageError(op string, err error) error {
	return NewError(KindStorage, op, err)
}

// NotificationError wraps err as a notification failure
func NotificationError(op string, err error) error {
	return NewError(KindNotification, op, err)
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
