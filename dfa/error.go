package dfa

import "fmt"

// ErrStateLimitExceeded indicates that determinization reached the maximum
// number of allowed states.
//
// This prevents unbounded memory growth for pathological pattern sets.
var ErrStateLimitExceeded = &Error{
	Kind:    StateLimitExceeded,
	Message: "DFA state limit exceeded",
}

// ErrInvalidConfig indicates that the provided configuration is invalid.
// This is caught before construction starts.
var ErrInvalidConfig = &Error{
	Kind:    InvalidConfig,
	Message: "invalid DFA configuration",
}

// ErrMalformed indicates that a serialized DFA payload could not be decoded.
var ErrMalformed = &Error{
	Kind:    Serialization,
	Message: "malformed DFA payload",
}

// ErrAmbiguous indicates that patterns with conflicting accept values match
// the same string and no resolver was provided to combine them.
var ErrAmbiguous = &Error{
	Kind:    AmbiguousMatch,
	Message: "ambiguous match",
}

// ErrorKind classifies DFA errors into categories
type ErrorKind uint8

const (
	// AmbiguousMatch indicates conflicting accept values for the same string
	AmbiguousMatch ErrorKind = iota

	// StateLimitExceeded indicates too many states were created
	StateLimitExceeded

	// InvalidConfig indicates configuration validation failed
	InvalidConfig

	// CacheIO indicates a build-cache read or write failed.
	// Cache failures are never fatal; they are logged and the build
	// proceeds without the cache.
	CacheIO

	// Serialization indicates a serialized DFA could not be encoded or
	// decoded. This is fatal to the call that hit it.
	Serialization
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case AmbiguousMatch:
		return "AmbiguousMatch"
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case InvalidConfig:
		return "InvalidConfig"
	case CacheIO:
		return "CacheIO"
	case Serialization:
		return "Serialization"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error represents an error that occurred during DFA construction, loading
// or caching.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// AmbiguityError reports the conflicting accept values when patterns with
// different results match the same string and no resolver combined them.
// errors.Is(err, ErrAmbiguous) matches it.
type AmbiguityError[M comparable] struct {
	// Matches holds the conflicting accept values in pattern-set order.
	Matches []M
}

// Error implements the error interface
func (e *AmbiguityError[M]) Error() string {
	return fmt.Sprintf("patterns match the same string with conflicting results %v", e.Matches)
}

// Is implements error comparison for errors.Is
func (e *AmbiguityError[M]) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == AmbiguousMatch
}
