package observability

import (
	"context"
	"time"
)

// OperationRecorder matches the service layer's metrics port.
type OperationRecorder interface {
	RecordOperation(ctx context.Context, operation string, duration time.Duration, err error)
}

// MultiRecorder fans one observation out to several recorders.
type MultiRecorder []OperationRecorder

func (m MultiRecorder) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	for _, r := range m {
		r.RecordOperation(ctx, operation, duration, err)
	}
}

// NopRecorder discards observations.
type NopRecorder struct{}

func (NopRecorder) RecordOperation(context.Context, string, time.Duration, error) {}
