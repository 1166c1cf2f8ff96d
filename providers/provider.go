package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	config "github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	otel "github.com/inference-gateway/calendar-assistant/otel"
)

var (
	// ErrUnknownProvider is returned for provider ids missing from the Registry
	ErrUnknownProvider = errors.New("unknown completion provider")
	// ErrMissingAPIKey is returned when a provider needs a key and none is set
	ErrMissingAPIKey = errors.New("completion provider API key is not configured")
	// ErrEmptyCompletion is returned when the backend answered without text
	ErrEmptyCompletion = errors.New("completion backend returned no text")
)

// Provider is a text-completion backend
//
//go:generate mockgen -source=provider.go -destination=../tests/mocks/provider.go -package=mocks
type Provider interface {
	GetID() string
	GetName() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds the configured completion backend. Calls are bounded by
// the configured timeout and timed into the completion latency metric.
func NewProvider(cfg *config.CompletionConfig, telemetry otel.OpenTelemetry, logger l.Logger, base http.RoundTripper) (Provider, error) {
	id := strings.ToLower(cfg.Provider)
	entry, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	if cfg.APIURL != "" {
		entry.URL = strings.TrimRight(cfg.APIURL, "/")
	}
	if entry.AuthType != AuthTypeNone && cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, entry.ID)
	}

	client := &http.Client{Transport: base}
	logger = logger.With("component", "completion", "provider", entry.ID, "model", cfg.Model)

	var p Provider
	if entry.Compatible() {
		p = newOpenAICompatible(entry, cfg, client)
	} else {
		p = newGoogle(entry, cfg, client)
	}

	if telemetry == nil {
		telemetry = otel.NewNoopTelemetry()
	}
	logger.Info("completion provider configured", "url", entry.URL)
	return &measuredProvider{
		Provider:  p,
		timeout:   cfg.Timeout,
		telemetry: telemetry,
		logger:    logger,
	}, nil
}

type measuredProvider struct {
	Provider
	timeout   time.Duration
	telemetry otel.OpenTelemetry
	logger    l.Logger
}

func (p *measuredProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := p.Provider.Complete(ctx, prompt)
	elapsed := time.Since(start)
	p.telemetry.RecordCompletion(ctx, p.GetID(), elapsed, err)

	if err != nil {
		p.logger.Error("completion failed", err, "duration_ms", elapsed.Milliseconds())
		return "", err
	}
	p.logger.Debug("completion received", "duration_ms", elapsed.Milliseconds(), "length", len(text))
	return text, nil
}
