package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a document or a field does not match the expected shape.
	ErrParse = errors.New("parse error")
	// ErrUnknownLocation is returned when a station name is missing from the station table.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrNotFound is returned by queries that have nothing to answer with.
	ErrNotFound = errors.New("not found")
	// ErrFetch is returned when the external fetch failed.
	ErrFetch = errors.New("fetch failed")
)

// ParseError describes a document-level or field-level shape mismatch.
type ParseError struct {
	Feed   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Feed + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NewParseError builds a ParseError for the given feed.
func NewParseError(feed, reason string, err error) *ParseError {
	return &ParseError{Feed: feed, Reason: reason, Err: err}
}

// UnknownLocationError names the station that could not be resolved.
type UnknownLocationError struct {
	Name string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.Name)
}

func (e *UnknownLocationError) Is(target error) bool { return target == ErrUnknownLocation }

// FetchError wraps a failed retrieval. Status is 0 when no response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
