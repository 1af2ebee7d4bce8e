package collector

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a source did not produce data. The chain treats
// all kinds identically; the kind only feeds diagnostic logging.
type FailureKind string

const (
	FailureNetwork    FailureKind = "network"
	FailureMalformed  FailureKind = "malformed"
	FailureUnexpected FailureKind = "unexpected"
)

// ErrUnmappedAsset marks an asset with no identifier in a provider's
// namespace; that provider is skipped without a network call.
var ErrUnmappedAsset = errors.New("no provider mapping for asset")

// ErrNoSource is returned when every adapter in the chain has failed.
var ErrNoSource = errors.New("no data source available")

// FetchError wraps a single adapter failure with its classification.
type FetchError struct {
	Source string
	Kind   FailureKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func networkErr(source string, err error) error {
	return &FetchError{Source: source, Kind: FailureNetwork, Err: err}
}

func malformedErr(source string, err error) error {
	return &FetchError{Source: source, Kind: FailureMalformed, Err: err}
}

func unexpectedErr(source string, err error) error {
	return &FetchError{Source: source, Kind: FailureUnexpected, Err: err}
}
