package commitment

import (
	"fmt"
	"strings"

	"github.com/k-kazuya0926/payment-commitments/internal/pkg/errs"
)

// ErrMalformedBody marks request bodies that could not be decoded as a JSON object.
var ErrMalformedBody = errs.New("malformed request body")

// Violation is one failed field check. Field is empty for body-level problems.
type Violation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// ValidationError reports every constraint a request violated.
type ValidationError struct {
	Violations []Violation
	cause      error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

// AmountFormatError is returned by ParseAmount.
type AmountFormatError struct {
	Input  string
	Reason string
	cause  error
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("invalid decimal amount %q: %s", e.Input, e.Reason)
}

func (e *AmountFormatError) Unwrap() error { return e.cause }

// StorageError wraps a failed put against the commitment store.
type StorageError struct {
	PaymentID string
	cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to store commitment %s: %v", e.PaymentID, e.cause)
}

func (e *StorageError) Unwrap() error { return e.cause }
