package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrConditionFailed     = errors.New("conditional check failed")
	ErrTransactionCanceled = errors.New("transaction canceled")
	ErrUnavailable         = errors.New("store unavailable")
	ErrEmptyTransaction    = errors.New("transaction has no operations")
	ErrTooManyOperations   = fmt.Errorf("transaction exceeds %d operations", MaxTransactItems)
	ErrDuplicateKey        = errors.New("transaction touches the same item more than once")
	ErrInvalidItem         = errors.New("item is missing its PK or SK attribute")
	ErrInvalidQuery        = errors.New("invalid query")
)

// Cancellation reason codes reported per operation.
const (
	ReasonNone                   = "None"
	ReasonConditionalCheckFailed = "ConditionalCheckFailed"
	ReasonTransactionConflict    = "TransactionConflict"
)

// CancellationReason explains the outcome of one operation in a canceled transaction.
type CancellationReason struct {
	Code    string
	Message string
}

// TransactionCanceledError is returned when any operation of a TransactWrite fails.
// Reasons is index-aligned with the submitted operations.
type TransactionCanceledError struct {
	Reasons []CancellationReason
}

func (e *TransactionCanceledError) Error() string {
	codes := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		codes[i] = r.Code
	}
	return fmt.Sprintf("transaction canceled, reasons [%s]", strings.Join(codes, ", "))
}

// Unwrap lets errors.Is match ErrTransactionCanceled.
func (e *TransactionCanceledError) Unwrap() error {
	return ErrTransactionCanceled
}

// ConditionFailedAt reports whether operation i failed its condition.
func (e *TransactionCanceledError) ConditionFailedAt(i int) bool {
	if i < 0 || i >= len(e.Reasons) {
		return false
	}
	return e.Reasons[i].Code == ReasonConditionalCheckFailed
}

// parseCancellationReasons recovers the reason codes DynamoDB lists in a
// TransactionCanceledException message, e.g.
// "Transaction cancelled, please refer cancellation reasons for specific reasons [None, ConditionalCheckFailed]".
func parseCancellationReasons(message string) []CancellationReason {
	open := strings.LastIndex(message, "[")
	end := strings.LastIndex(message, "]")
	if open < 0 || end <= open {
		return nil
	}
	parts := strings.Split(message[open+1:end], ",")
	reasons := make([]CancellationReason, 0, len(parts))
	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code == "" {
			return nil
		}
		reasons = append(reasons, CancellationReason{Code: code})
	}
	return reasons
}

// AsTransactionCanceled extracts the cancellation details from err.
func AsTransactionCanceled(err error) (*TransactionCanceledError, bool) {
	var tce *TransactionCanceledError
	if errors.As(err, &tce) {
		return tce, true
	}
	return nil, false
}
