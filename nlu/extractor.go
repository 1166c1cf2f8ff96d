package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/inference-gateway/calendar-assistant/calendar"
	l "github.com/inference-gateway/calendar-assistant/logger"
	"github.com/inference-gateway/calendar-assistant/providers"
)

// FailureKind classifies why the completion path could not produce an intent
type FailureKind string

const (
	FailureBackendUnavailable FailureKind = "backend_unavailable"
	FailureEmptyCompletion    FailureKind = "empty_completion"
	FailureMalformedJSON      FailureKind = "malformed_json"
	FailureSchemaViolation    FailureKind = "schema_violation"
)

// ParseFailure is returned by the Extractor instead of an intent
type ParseFailure struct {
	Kind FailureKind
	Err  error
}

func (f *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *ParseFailure) Unwrap() error { return f.Err }

func failure(kind FailureKind, format string, args ...any) *ParseFailure {
	return &ParseFailure{Kind: kind, Err: fmt.Errorf(format, args...)}
}

var fencedJSONRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Extractor asks a completion backend to classify an utterance and pull the
// event fields out of it
type Extractor struct {
	provider providers.Provider
	location *time.Location
	logger   l.Logger
}

func NewExtractor(provider providers.Provider, loc *time.Location, logger l.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		location: loc,
		logger:   logger.With("component", "nlu"),
	}
}

// Extract returns the intent the completion backend resolved, or a
// *ParseFailure
func (e *Extractor) Extract(ctx context.Context, utterance string, now time.Time) (ActionIntent, error) {
	prompt, err := BuildPrompt(utterance, Situation{Now: now.In(e.location), Timezone: e.location.String()})
	if err != nil {
		return ActionIntent{}, failure(FailureBackendUnavailable, "render prompt: %w", err)
	}

	completion, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, providers.ErrEmptyCompletion) {
			return ActionIntent{}, &ParseFailure{Kind: FailureEmptyCompletion, Err: err}
		}
		return ActionIntent{}, &ParseFailure{Kind: FailureBackendUnavailable, Err: err}
	}

	payload := StripCodeFence(completion)
	if payload == "" {
		return ActionIntent{}, failure(FailureEmptyCompletion, "completion contained no JSON")
	}
	e.logger.Debug("completion payload", "payload", payload)

	intent, err := decodeIntent([]byte(payload), e.location)
	if err != nil {
		return ActionIntent{}, err
	}
	intent.Source = SourceCompletion
	intent.Endpoint, intent.Method = intent.Action.Route()
	return intent, nil
}

// StripCodeFence removes a markdown code fence around a JSON document, and
// any prose before the first or after the last brace
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

type completionAttendee struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type completionFields struct {
	Summary     *string              `json:"summary"`
	Description *string              `json:"description"`
	Location    *string              `json:"location"`
	StartTime   *string              `json:"start_time"`
	EndTime     *string              `json:"end_time"`
	Date        *string              `json:"date"`
	Timezone    *string              `json:"timezone"`
	Attendees   []completionAttendee `json:"attendees"`
	EventID     *string              `json:"event_id"`
}

type completionPayload struct {
	Action     *string           `json:"action"`
	Confidence *float64          `json:"confidence"`
	ParsedData *completionFields `json:"parsed_data"`
	Reasoning  *string           `json:"reasoning"`
}

func decodeIntent(payload []byte, loc *time.Location) (ActionIntent, error) {
	if !json.Valid(payload) {
		return ActionIntent{}, failure(FailureMalformedJSON, "completion is not valid JSON")
	}

	var raw completionPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ActionIntent{}, &ParseFailure{Kind: FailureSchemaViolation, Err: err}
	}

	if raw.Action == nil {
		return ActionIntent{}, failure(FailureSchemaViolation, "action is missing")
	}
	action := Action(strings.TrimSpace(*raw.Action))
	if !action.Valid() {
		return ActionIntent{}, failure(FailureSchemaViolation, "unknown action %q", *raw.Action)
	}
	if raw.Confidence == nil {
		return ActionIntent{}, failure(FailureSchemaViolation, "confidence is missing")
	}
	if *raw.Confidence < 0 || *raw.Confidence > 1 {
		return ActionIntent{}, failure(FailureSchemaViolation, "confidence %v outside [0, 1]", *raw.Confidence)
	}

	intent := ActionIntent{
		Action:     action,
		Confidence: *raw.Confidence,
		Reasoning:  deref(raw.Reasoning),
	}
	if intent.Reasoning == "" {
		intent.Reasoning = "Intent resolved by the completion backend"
	}

	if action == ActionGetEvents || raw.ParsedData == nil {
		return intent, nil
	}

	fields, err := normalizeFields(raw.ParsedData, loc)
	if err != nil {
		return ActionIntent{}, err
	}
	if action == ActionCreateEvent {
		fields.EventID = ""
	}
	intent.Fields = fields
	return intent, nil
}

func normalizeFields(raw *completionFields, loc *time.Location) (*ParsedEventFields, error) {
	fields := &ParsedEventFields{
		Summary:     strings.TrimSpace(deref(raw.Summary)),
		Description: strings.TrimSpace(deref(raw.Description)),
		Location:    strings.TrimSpace(deref(raw.Location)),
		Timezone:    strings.TrimSpace(deref(raw.Timezone)),
		EventID:     strings.TrimSpace(deref(raw.EventID)),
	}

	if fields.Timezone != "" {
		if _, err := time.LoadLocation(fields.Timezone); err != nil {
			return nil, failure(FailureSchemaViolation, "unknown timezone %q", fields.Timezone)
		}
	}

	var err error
	if fields.StartTime, err = normalizeTimestamp(deref(raw.StartTime), loc); err != nil {
		return nil, failure(FailureSchemaViolation, "start_time: %v", err)
	}
	if fields.EndTime, err = normalizeTimestamp(deref(raw.EndTime), loc); err != nil {
		return nil, failure(FailureSchemaViolation, "end_time: %v", err)
	}
	if fields.StartTime != "" && fields.EndTime == "" {
		start, _ := time.Parse(calendar.LocalLayout, fields.StartTime)
		fields.EndTime = start.Add(time.Hour).Format(calendar.LocalLayout)
	}

	if date := strings.TrimSpace(deref(raw.Date)); date != "" {
		if _, err := time.Parse(calendar.DateLayout, date); err != nil {
			return nil, failure(FailureSchemaViolation, "date %q is not YYYY-MM-DD", date)
		}
		fields.Date = date
	}

	for _, a := range raw.Attendees {
		email := strings.TrimSpace(deref(a.Email))
		if email == "" || !strings.Contains(email, "@") {
			continue
		}
		name := strings.TrimSpace(deref(a.Name))
		if name == "" {
			name = email[:strings.Index(email, "@")]
		}
		fields.Attendees = append(fields.Attendees, Attendee{Name: name, Email: email})
	}

	return fields, nil
}

// normalizeTimestamp accepts naive or offset timestamps and returns the
// wall-clock value in loc
func normalizeTimestamp(value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	for _, layout := range []string{calendar.LocalLayout, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.Format(calendar.LocalLayout), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc).Format(calendar.LocalLayout), nil
	}
	return "", fmt.Errorf("%q is not an ISO-8601 timestamp", value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
