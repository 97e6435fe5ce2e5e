package filedb

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an Error.
type Kind int

const (
	// KindInternal wraps a failure from the database engine, the
	// compression codec, or file I/O.
	KindInternal Kind = iota + 1
	// KindGeneral is a precondition violation in this library.
	KindGeneral
	// KindNoMatch means the requested key has no rows under any timestamp.
	KindNoMatch
	// KindTimeStampNotAvailable means the requested (key, timestamp) pair
	// has no row.
	KindTimeStampNotAvailable
)

// Error is the error type returned by all FileDB operations.
type Error struct {
	Kind      Kind
	Key       string
	TimeStamp time.Time
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindNoMatch:
		return fmt.Sprintf("no match found for key %q", e.Key)
	case KindTimeStampNotAvailable:
		return fmt.Sprintf("no data available for key %q and time stamp %s", e.Key, e.TimeStamp.UTC().Format(time.RFC3339))
	case KindGeneral:
		return e.Message
	default:
		if e.Message != "" && e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
}

// Unwrap exposes the wrapped engine or codec error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNoMatch reports whether err is a KindNoMatch error.
func IsNoMatch(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindNoMatch
}

// IsTimeStampNotAvailable reports whether err is a KindTimeStampNotAvailable error.
func IsTimeStampNotAvailable(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTimeStampNotAvailable
}

func internalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

func generalError(msg string) *Error {
	return &Error{Kind: KindGeneral, Message: msg}
}

func noMatchError(key string) *Error {
	return &Error{Kind: KindNoMatch, Key: key}
}

func timeStampNotAvailableError(key string, timeStamp time.Time) *Error {
	return &Error{Kind: KindTimeStampNotAvailable, Key: key, TimeStamp: timeStamp}
}
