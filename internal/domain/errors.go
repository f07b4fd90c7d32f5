package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, caller-facing category of a domain failure.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindInvalidState       ErrorKind = "INVALID_STATE"
	KindDuplicate          ErrorKind = "DUPLICATE"
	KindCapacityExceeded   ErrorKind = "CAPACITY_EXCEEDED"
	KindInsufficientFunds  ErrorKind = "INSUFFICIENT_FUNDS"
	KindInvalidAmount      ErrorKind = "INVALID_AMOUNT"
	KindInvalidArgument    ErrorKind = "INVALID_ARGUMENT"
	KindUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	KindTransactionFailure ErrorKind = "TRANSACTION_FAILURE"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "permission denied"}
	ErrInvalidState       = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrDuplicate          = &Error{Kind: KindDuplicate, Message: "already exists"}
	ErrCapacityExceeded   = &Error{Kind: KindCapacityExceeded, Message: "capacity exceeded"}
	ErrInsufficientFunds  = &Error{Kind: KindInsufficientFunds, Message: "insufficient funds"}
	ErrInvalidAmount      = &Error{Kind: KindInvalidAmount, Message: "amount must be greater than zero"}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrTransactionFailure = &Error{Kind: KindTransactionFailure, Message: "operation failed"}
)

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...any) error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

func CapacityExceeded(format string, args ...any) error {
	return &Error{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

func InsufficientFunds(format string, args ...any) error {
	return &Error{Kind: KindInsufficientFunds, Message: fmt.Sprintf(format, args...)}
}

func InvalidAmount(format string, args ...any) error {
	return &Error{Kind: KindInvalidAmount, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

// TransactionFailure wraps a store-level failure. The cause stays available
// to errors.Is/As and logs but is not part of the caller-facing message.
func TransactionFailure(cause error) error {
	return &wrappedError{
		kind:  &Error{Kind: KindTransactionFailure, Message: ErrTransactionFailure.Message},
		cause: cause,
	}
}

type wrappedError struct {
	kind  *Error
	cause error
}

func (w *wrappedError) Error() string {
	return fmt.Sprintf("%s: %v", w.kind.Kind, w.cause)
}

func (w *wrappedError) Unwrap() []error {
	return []error{w.kind, w.cause}
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// carry no kind are reported as TRANSACTION_FAILURE.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransactionFailure
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ErrTransactionFailure.Message
}
