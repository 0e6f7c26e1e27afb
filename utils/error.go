package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies settlement failures so the route layer can translate
// them to HTTP status codes without string matching.
type ErrorKind string

const (
	ErrorKindValidation            ErrorKind = "Validation"
	ErrorKindOverAllocation        ErrorKind = "OverAllocation"
	ErrorKindUnbalancedTransaction ErrorKind = "UnbalancedTransaction"
	ErrorKindInsufficientBalance   ErrorKind = "InsufficientBalance"
	ErrorKindAlreadyReversed       ErrorKind = "AlreadyReversed"
)

type SettlementError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *SettlementError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func NewValidationError(field string, format string, args ...any) error {
	return &SettlementError{Kind: ErrorKindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NewOverAllocationError(format string, args ...any) error {
	return &SettlementError{Kind: ErrorKindOverAllocation, Message: fmt.Sprintf(format, args...)}
}

// NewUnbalancedTransactionError signals a programming error in a caller of the
// ledger poster; it must abort the posting transaction.
func NewUnbalancedTransactionError(format string, args ...any) error {
	return &SettlementError{Kind: ErrorKindUnbalancedTransaction, Message: fmt.Sprintf(format, args...)}
}

func NewInsufficientBalanceError(format string, args ...any) error {
	return &SettlementError{Kind: ErrorKindInsufficientBalance, Message: fmt.Sprintf(format, args...)}
}

func NewAlreadyReversedError(format string, args ...any) error {
	return &SettlementError{Kind: ErrorKindAlreadyReversed, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the settlement error kind, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var se *SettlementError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
