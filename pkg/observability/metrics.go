package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	pkgerrors "parkwise/pkg/errors"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes service operation metrics to CloudWatch.
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordOperation emits OperationLatency and OperationCount, both dimensioned by
// operation and outcome.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m.client == nil {
		return
	}

	now := time.Now()
	dimensions := []types.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
		{Name: aws.String("Outcome"), Value: aws.String(Outcome(err))},
	}
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("OperationLatency"),
				Dimensions: dimensions,
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       types.StandardUnitMilliseconds,
				Timestamp:  aws.Time(now),
			},
			{
				MetricName: aws.String("OperationCount"),
				Dimensions: dimensions,
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(now),
			},
		},
	}

	if _, putErr := m.client.PutMetricData(ctx, input); putErr != nil {
		m.logger.Warn("Failed to send metrics",
			zap.String("operation", operation),
			zap.Error(putErr),
		)
	}
}

// Outcome classifies an operation result for metric labels.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		switch appErr.Type {
		case pkgerrors.ErrorTypeConflict:
			return "conflict"
		case pkgerrors.ErrorTypeNotFound:
			return "not_found"
		case pkgerrors.ErrorTypeValidation:
			return "invalid"
		case pkgerrors.ErrorTypeUnauthorized, pkgerrors.ErrorTypeForbidden:
			return "denied"
		case pkgerrors.ErrorTypeUnavailable:
			return "unavailable"
		}
	}
	return "error"
}
