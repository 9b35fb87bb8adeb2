package contracts

import (
	"errors"
	"fmt"
)

// FetchError is a provider/network failure for one symbol. The batch
// continues without that symbol.
type FetchError struct {
	Symbol    string
	Provider  string
	Transient bool // 429, 5xx, timeouts
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Symbol, e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err, classifying it as transient when any error in the
// chain reports Temporary() or Timeout()
func NewFetchError(provider, symbol string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{
		Symbol:    symbol,
		Provider:  provider,
		Transient: isTransient(err),
		Err:       err,
	}
}

func isTransient(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) && temp.Temporary() {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}

// ScoringDataError means a record lacks a field the scorer requires.
// The entity is skipped.
type ScoringDataError struct {
	Symbol string
	Field  string
	Reason string
}

func (e *ScoringDataError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("scoring: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("scoring %s: %s %s", e.Symbol, e.Field, e.Reason)
}

// ConfigurationError is fatal: the run aborts before any fetch
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
