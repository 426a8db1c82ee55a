package telemetry

import (
	"bytes"
	"context"
	"testing"

	"lumina-commerce/internal/domain"
	"lumina-commerce/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fixedSource struct{}

func (fixedSource) GetByID(_ context.Context, id string) (*domain.Order, error) {
	for _, o := range order.DemoOrders() {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestSetupExportsLookupSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(true, &buf)
	require.NoError(t, err)

	_, err = order.NewTracker(fixedSource{}, nil).Lookup(context.Background(), "12345")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"order.lookup"`)
	assert.Contains(t, buf.String(), ServiceName)
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(false, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestLookupSpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tracker := order.NewTracker(fixedSource{}, nil)
	_, err := tracker.Lookup(context.Background(), "unknown-id")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "order.lookup", spans[0].Name())
	var result string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "order.lookup.result" {
			result = kv.Value.AsString()
		}
	}
	assert.Equal(t, order.ResultNotFound, result)
}
