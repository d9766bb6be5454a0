package service

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means a required gateway secret or endpoint is missing.
// Operations fail with it before any network call is attempted.
var ErrNotConfigured = errors.New("payment gateway not configured")

// ValidationError marks a malformed inbound request; no gateway call is made
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

// GatewayError wraps a failure talking to, or reported by, a gateway
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "gateway error: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
