package nlu

import (
	"context"
	"errors"
	"strings"
	"time"

	l "github.com/inference-gateway/calendar-assistant/logger"
)

// PrimaryExtractor is the completion-backed resolution path
type PrimaryExtractor interface {
	Extract(ctx context.Context, utterance string, now time.Time) (ActionIntent, error)
}

// Resolver tries the primary extractor and falls back to keyword heuristics
type Resolver struct {
	primary  PrimaryExtractor
	fallback *Fallback
	now      func() time.Time
	logger   l.Logger
}

// NewResolver returns a resolver. primary may be nil, in which case every
// utterance goes through the fallback.
func NewResolver(primary PrimaryExtractor, fallback *Fallback, now func() time.Time, logger l.Logger) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		now:      now,
		logger:   logger.With("component", "nlu"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, utterance string) ActionIntent {
	utterance = strings.TrimSpace(utterance)
	now := r.now()

	if r.primary != nil {
		intent, err := r.primary.Extract(ctx, utterance, now)
		if err == nil {
			r.logger.Debug("intent resolved", "action", intent.Action, "confidence", intent.Confidence, "source", intent.Source)
			return intent
		}

		kind := FailureBackendUnavailable
		var pf *ParseFailure
		if errors.As(err, &pf) {
			kind = pf.Kind
		}
		r.logger.Warn("completion path failed, using keyword fallback", "kind", string(kind), "error", err.Error())
	}

	intent := r.fallback.Parse(utterance, now)
	r.logger.Debug("intent resolved", "action", intent.Action, "confidence", intent.Confidence, "source", intent.Source)
	return intent
}
