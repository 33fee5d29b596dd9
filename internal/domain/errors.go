package domain

import (
	"errors"
	"fmt"
)

// ErrInput is the root of caller-contract violations: the request itself is
// malformed and computation never starts.
var ErrInput = errors.New("invalid input")

// ErrConfig is the root of tax-table problems: a missing or malformed table
// fails the whole calculation for that period. There is no fallback default.
var ErrConfig = errors.New("invalid tax table")

// InputError reports a rejected field on a PayPeriodInput.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Msg)
}

func (e *InputError) Unwrap() error { return ErrInput }

// NewInputError builds an InputError for the given field.
func NewInputError(field, format string, args ...any) error {
	return &InputError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ConfigError reports a malformed or missing tax table.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid tax table: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError builds a ConfigError.
func NewConfigError(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
