package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures so the API layer can pick a status
// and message without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindMissingLocation: no 5-digit ZIP resolvable from the question.
	KindMissingLocation
	// KindInvalidLocation: the ZIP failed geocoding. Client input error,
	// never retried.
	KindInvalidLocation
	// KindUpstreamExtraction: the completion service exhausted its retry
	// budget. Not silently downgraded to the fallback parser.
	KindUpstreamExtraction
	// KindUpstreamTimeout: geocoder, completion service or storage exceeded
	// its deadline. Kept distinct from hard failure.
	KindUpstreamTimeout
)

// QueryError carries the kind plus the offending input so callers can
// render a message. No error is logged-and-ignored inside the engine.
type QueryError struct {
	Kind  ErrorKind
	Input string
	Err   error
}

func (e *QueryError) Error() string {
	msg := ""
	switch e.Kind {
	case KindMissingLocation:
		msg = "missing ZIP code"
	case KindInvalidLocation:
		msg = "invalid or unsupported ZIP code"
	case KindUpstreamExtraction:
		msg = "parameter extraction failed"
	case KindUpstreamTimeout:
		msg = "upstream timeout"
	default:
		msg = "query failed"
	}
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Input)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// KindOf extracts the kind from an error chain, KindUnknown otherwise.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}
