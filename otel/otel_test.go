package otel

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/inference-gateway/calendar-assistant/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTelemetryImpl_RecordsAndExports(t *testing.T) {
	o := &OpenTelemetryImpl{}
	require.NoError(t, o.Init(config.Config{ApplicationName: "calendar-assistant"}))
	t.Cleanup(func() { _ = o.Shutdown(context.Background()) })

	ctx := context.Background()
	o.RecordRequest(ctx, http.MethodPost, "/ai/calendar", http.StatusOK, 120*time.Millisecond)
	o.RecordIntent(ctx, "create_event", "fallback")
	o.RecordMatches(ctx, "delete_event", "single", 1)
	o.RecordCompletion(ctx, "google", 800*time.Millisecond, errors.New("timeout"))

	rec := httptest.NewRecorder()
	o.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "assistant_requests")
	assert.Contains(t, text, "assistant_intents")
	assert.Contains(t, text, `source="fallback"`)
	assert.Contains(t, text, "completion_duration")
}

func TestOpenTelemetryImpl_UninitializedIsSafe(t *testing.T) {
	o := &OpenTelemetryImpl{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		o.RecordRequest(ctx, http.MethodGet, "/health", http.StatusOK, time.Millisecond)
		o.RecordIntent(ctx, "unknown", "completion")
		o.RecordMatches(ctx, "update_event", "none", 0)
		o.RecordCompletion(ctx, "openai", time.Second, nil)
	})
	assert.Nil(t, o.GetMeter("x"))

	rec := httptest.NewRecorder()
	o.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
