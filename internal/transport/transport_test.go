package transport

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inference-gateway/calendar-assistant/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	logger.Logger
	debugs []string
	errors []string
}

func (r *recordingLogger) Debug(message string, fields ...interface{}) {
	r.debugs = append(r.debugs, message)
}

func (r *recordingLogger) Error(message string, err error, fields ...interface{}) {
	r.errors = append(r.errors, message)
}

func gzipped(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDevTransport(t *testing.T) {
	tests := []struct {
		name          string
		contentType   string
		encoding      string
		body          func(t *testing.T) []byte
		expectedBody  string
		expectedDebug int
		expectedError int
	}{
		{
			name:          "JSON response is logged",
			contentType:   "application/json; charset=UTF-8",
			body:          func(*testing.T) []byte { return []byte(`{"kind":"calendar#events","items":[]}`) },
			expectedBody:  `{"kind":"calendar#events","items":[]}`,
			expectedDebug: 1,
		},
		{
			name:          "Gzipped JSON is decoded for the log only",
			contentType:   "application/json",
			encoding:      "gzip",
			body:          func(t *testing.T) []byte { return gzipped(t, `{"candidates":[]}`) },
			expectedDebug: 1,
		},
		{
			name:         "Other content types pass through",
			contentType:  "text/plain",
			body:         func(*testing.T) []byte { return []byte("ok") },
			expectedBody: "ok",
		},
		{
			name:          "Broken JSON is reported",
			contentType:   "application/json",
			body:          func(*testing.T) []byte { return []byte(`{"items":`) },
			expectedBody:  `{"items":`,
			expectedError: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tt.body(t)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				_, _ = w.Write(payload)
			}))
			defer server.Close()

			rl := &recordingLogger{Logger: logger.NewNoOpLogger()}
			client := &http.Client{Transport: NewDevTransport(&http.Transport{DisableCompression: true}, rl)}

			resp, err := client.Get(server.URL + "/calendar/v3/calendars/primary/events")
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, string(body))
			} else {
				assert.Equal(t, payload, body)
			}
			assert.Len(t, rl.debugs, tt.expectedDebug)
			assert.Len(t, rl.errors, tt.expectedError)
		})
	}
}

func TestNew(t *testing.T) {
	assert.Equal(t, http.DefaultTransport, New("production", logger.NewNoOpLogger()))
	assert.IsType(t, &DevTransport{}, New("development", logger.NewNoOpLogger()))
}
