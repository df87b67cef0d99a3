package dynamodb

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"parkwise/infrastructure/persistence/store"
	pkgerrors "parkwise/pkg/errors"
)

// storeError converts a store failure that has no business meaning into an AppError.
func storeError(operation string, err error) error {
	if pkgerrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, store.ErrUnavailable) {
		return pkgerrors.NewUnavailableError("parking table").WithCause(err)
	}
	return pkgerrors.NewDatabaseError(operation, err)
}

// cancellationFields describes a canceled transaction for logging. ops labels the
// operations in submission order.
func cancellationFields(err error, ops ...string) []zap.Field {
	tce, ok := store.AsTransactionCanceled(err)
	if !ok {
		return []zap.Field{zap.Error(err)}
	}
	fields := make([]zap.Field, 0, len(tce.Reasons))
	for i, reason := range tce.Reasons {
		if reason.Code == store.ReasonNone || reason.Code == "" {
			continue
		}
		label := fmt.Sprintf("op%d", i)
		if i < len(ops) {
			label = ops[i]
		}
		fields = append(fields, zap.String(label, reason.Code))
	}
	return fields
}
