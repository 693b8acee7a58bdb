package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/adboard/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

func attrMap(span sdktrace.ReadOnlySpan) map[string]any {
	m := map[string]any{}
	for _, kv := range span.Attributes() {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "pricing.estimate")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pricing.estimate", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
}

func TestStartServiceSpan_WithOptions(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "collection", "customer_overdue",
		trace.WithSpanKind(trace.SpanKindServer),
		telemetry.Attr(telemetry.SpanAttrCustomerID, "cust-1"),
		telemetry.Attr(telemetry.SpanAttrContractCount, 3),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "collection.customer_overdue", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())

	attrs := attrMap(spans[0])
	assert.Equal(t, "cust-1", attrs[telemetry.SpanAttrCustomerID])
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrContractCount])
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrContractNumber, "C-100",
		telemetry.SpanAttrAmount, decimal.RequireFromString("1500.50"),
		42, "ignored because the key is not a string",
		telemetry.SpanAttrOverdueCount, int64(2),
		"flag", true,
		"ratio", 0.25,
		"ids", []string{"b1", "b2"},
		"odd",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0])
	assert.Equal(t, "C-100", attrs[telemetry.SpanAttrContractNumber])
	assert.Equal(t, "1500.5", attrs[telemetry.SpanAttrAmount])
	assert.Equal(t, int64(2), attrs[telemetry.SpanAttrOverdueCount])
	assert.Equal(t, true, attrs["flag"])
	assert.Equal(t, 0.25, attrs["ratio"])
	assert.Equal(t, []string{"b1", "b2"}, attrs["ids"])
	assert.NotContains(t, attrs, "odd")
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.RecordError(span, errors.New("price table unavailable"))
	span.End()

	got := sr.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "price table unavailable", got.Status().Description)
	require.Len(t, got.Events(), 1)
	assert.Equal(t, "exception", got.Events()[0].Name)
}

func TestRecordError_NilInputs(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.RecordError(span, nil)
	telemetry.SetOK(span)
	span.End()

	assert.Equal(t, codes.Ok, sr.Ended()[0].Status().Code)

	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.SetAttributes(nil, "k", "v")
		telemetry.AddEvent(nil, "e")
		telemetry.SetOK(nil)
	})
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "op")
	telemetry.AddEvent(span, "contract_skipped", telemetry.SpanAttrContractNumber, "C-7")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "contract_skipped", events[0].Name)
	require.Len(t, events[0].Attributes, 1)
	assert.Equal(t, "C-7", events[0].Attributes[0].Value.AsString())
}
