package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when the search request could not be completed
	ErrNetwork = errors.New("ingredient search request failed")
	// ErrAuth is returned when the search endpoint rejects our credentials
	ErrAuth = errors.New("ingredient search not authorized")
	// ErrMalformedBody is returned when the response is not a categorized ingredient map
	ErrMalformedBody = errors.New("malformed ingredient search response")
	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
	// ErrNoCredentials is returned when neither a token nor client credentials are configured
	ErrNoCredentials = errors.New("no credentials configured")
)

// FetchErrorKind classifies a failed ingredient fetch
type FetchErrorKind int

const (
	KindNetwork FetchErrorKind = iota
	KindAuth
	KindParse
)

func (k FetchErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindParse:
		return "parse"
	default:
		return "network"
	}
}

// FetchError wraps the underlying cause of a failed fetch with its kind
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

// NewFetchError builds a FetchError of the given kind
func NewFetchError(kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *FetchError) sentinel() error {
	switch e.Kind {
	case KindAuth:
		return ErrAuth
	case KindParse:
		return ErrMalformedBody
	default:
		return ErrNetwork
	}
}

// KindOf returns the kind of a fetch failure; errors that are not a
// FetchError count as network failures
func KindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}
