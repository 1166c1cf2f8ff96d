package transport

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inference-gateway/calendar-assistant/logger"
)

// New returns the base transport for outbound backend calls. In development
// every JSON response is logged at debug level.
func New(environment string, l logger.Logger) http.RoundTripper {
	base := http.DefaultTransport
	if environment != "development" {
		return base
	}
	return &DevTransport{base: base, logger: l}
}

// DevTransport logs backend responses without consuming them
type DevTransport struct {
	base   http.RoundTripper
	logger logger.Logger
}

func NewDevTransport(base http.RoundTripper, l logger.Logger) *DevTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DevTransport{base: base, logger: l}
}

func (t *DevTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Error("backend request failed", err, "method", req.Method, "host", req.URL.Host)
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.logger.Error("failed to read backend response", err)
		return nil, err
	}
	// Always restore the body
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return resp, nil
	}

	t.logJSONResponse(req, resp, t.decompress(resp, bodyBytes), time.Since(start))
	return resp, nil
}

func (t *DevTransport) decompress(resp *http.Response, bodyBytes []byte) []byte {
	if resp.Header.Get("Content-Encoding") != "gzip" || len(bodyBytes) == 0 {
		return bodyBytes
	}

	reader, err := gzip.NewReader(bytes.NewReader(bodyBytes))
	if err != nil {
		t.logger.Error("invalid gzip content", err)
		return bodyBytes
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.logger.Error("failed to read gzipped content", err)
		return bodyBytes
	}
	return decompressed
}

func (t *DevTransport) logJSONResponse(req *http.Request, resp *http.Response, body []byte, duration time.Duration) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		t.logger.Error("failed to unmarshal backend response", err)
		return
	}

	t.logger.Debug("backend response",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", duration.String(),
		"body", data,
	)
}
