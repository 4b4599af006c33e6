package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "lexflow/backend/internal/services"

// Metrics holds the workflow counters. A nil *Metrics records nothing.
type Metrics struct {
	fieldsExtracted    metric.Int64Counter
	answersRejected    metric.Int64Counter
	workflowsCompleted metric.Int64Counter
}

// NewMetrics registers the workflow counters on meter. A nil meter uses
// the global provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	m := &Metrics{}
	var err error

	m.fieldsExtracted, err = meter.Int64Counter(
		"lexflow.fields.extracted_total",
		metric.WithDescription("Placeholders classified into fields"),
		metric.WithUnit("{field}"),
	)
	if err != nil {
		return nil, err
	}

	m.answersRejected, err = meter.Int64Counter(
		"lexflow.answers.rejected_total",
		metric.WithDescription("Answers that failed validation"),
		metric.WithUnit("{answer}"),
	)
	if err != nil {
		return nil, err
	}

	m.workflowsCompleted, err = meter.Int64Counter(
		"lexflow.workflows.completed_total",
		metric.WithDescription("Workflows that reached review"),
		metric.WithUnit("{workflow}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) recordExtracted(ctx context.Context, documentType string, n int) {
	if m == nil {
		return
	}
	m.fieldsExtracted.Add(ctx, int64(n), metric.WithAttributes(attribute.String("document_type", documentType)))
}

func (m *Metrics) recordRejected(ctx context.Context, fieldType string) {
	if m == nil {
		return
	}
	m.answersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("field_type", fieldType)))
}

func (m *Metrics) recordCompleted(ctx context.Context, templateID string) {
	if m == nil {
		return
	}
	m.workflowsCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("template_id", templateID)))
}
