// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound      = errors.New("trade not found")
	ErrTradeAlreadyClosed = errors.New("trade already closed")
	ErrTradeStillOpen     = errors.New("trade still open")
	ErrEvaluationExists   = errors.New("evaluation already submitted")
	ErrNilSelfReport      = errors.New("nil self-report")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrInputValidation    = errors.New("input validation failed")
)

// StoreError represents an error from the persistence layer.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// ReflectionError represents an error while processing a trade reflection.
type ReflectionError struct {
	TradeID string
	Reason  string
	Err     error
}

func (e *ReflectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reflection error [%s]: %s: %v", e.TradeID, e.Reason, e.Err)
	}
	return fmt.Sprintf("reflection error [%s]: %s", e.TradeID, e.Reason)
}

func (e *ReflectionError) Unwrap() error {
	return e.Err
}

// NewReflectionError creates a new ReflectionError.
func NewReflectionError(tradeID, reason string, err error) *ReflectionError {
	return &ReflectionError{TradeID: tradeID, Reason: reason, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
