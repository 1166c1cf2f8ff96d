// Package assistant dispatches resolved intents to the calendar backend.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inference-gateway/calendar-assistant/calendar"
	"github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	"github.com/inference-gateway/calendar-assistant/matcher"
	"github.com/inference-gateway/calendar-assistant/nlu"
	"github.com/inference-gateway/calendar-assistant/otel"
)

var (
	// ErrMissingTimes is returned when a create request lacks a start or end
	ErrMissingTimes = errors.New("start and end times are required to create an event")
	// ErrEmptyUtterance is returned for blank requests
	ErrEmptyUtterance = errors.New("prompt must not be empty")
)

// Match outcomes recorded for update and delete requests
const (
	OutcomeNone      = "none"
	OutcomeSingle    = "single"
	OutcomeAmbiguous = "ambiguous"
)

// Assistant turns an utterance into a calendar action
type Assistant interface {
	Handle(ctx context.Context, utterance string) (Response, error)
	Dispatch(ctx context.Context, utterance string, intent nlu.ActionIntent) (Response, error)
}

type AssistantImpl struct {
	cfg       config.AssistantConfig
	calCfg    config.CalendarConfig
	location  *time.Location
	resolver  nlu.IntentResolver
	matcher   matcher.EventMatcher
	calendar  calendar.Service
	telemetry otel.OpenTelemetry
	now       func() time.Time
	logger    l.Logger
}

func NewAssistant(
	cfg config.Config,
	resolver nlu.IntentResolver,
	eventMatcher matcher.EventMatcher,
	service calendar.Service,
	telemetry otel.OpenTelemetry,
	now func() time.Time,
	logger l.Logger,
) (Assistant, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &AssistantImpl{
		cfg:       *cfg.Assistant,
		calCfg:    *cfg.Calendar,
		location:  loc,
		resolver:  resolver,
		matcher:   eventMatcher,
		calendar:  service,
		telemetry: telemetry,
		now:       now,
		logger:    logger.With("component", "assistant"),
	}, nil
}

// Handle resolves the utterance and dispatches it when the intent is
// confident enough. The returned error is set for bad requests and calendar
// failures; the Response describes the outcome in both cases.
func (a *AssistantImpl) Handle(ctx context.Context, utterance string) (Response, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return a.respond(nlu.ActionIntent{Action: nlu.ActionUnknown, Reasoning: "Empty prompt"}, false, "Please tell me what you would like to do with your calendar.", Suggestions{Suggestions: examplePrompts}), ErrEmptyUtterance
	}

	intent := a.resolver.Resolve(ctx, utterance)
	a.telemetry.RecordIntent(ctx, string(intent.Action), string(intent.Source))
	a.logger.Info("intent resolved",
		"action", string(intent.Action),
		"confidence", intent.Confidence,
		"source", string(intent.Source),
	)

	if intent.Confidence < a.cfg.ConfidenceThreshold {
		msg := fmt.Sprintf("I'm not confident enough about what you want to do (confidence: %.2f). Could you rephrase your request?", intent.Confidence)
		return a.respond(intent, false, msg, Suggestions{Suggestions: examplePrompts}), nil
	}

	return a.Dispatch(ctx, utterance, intent)
}

// Dispatch executes an already resolved intent
func (a *AssistantImpl) Dispatch(ctx context.Context, utterance string, intent nlu.ActionIntent) (Response, error) {
	switch intent.Action {
	case nlu.ActionCreateEvent:
		return a.createEvent(ctx, intent)
	case nlu.ActionGetEvents:
		return a.getEvents(ctx, utterance, intent)
	case nlu.ActionUpdateEvent, nlu.ActionDeleteEvent:
		return a.modifyEvent(ctx, utterance, intent)
	default:
		return a.respond(intent, false, "I couldn't work out what you want to do with your calendar. Try one of the examples below.", Suggestions{Suggestions: examplePrompts}), nil
	}
}

func (a *AssistantImpl) createEvent(ctx context.Context, intent nlu.ActionIntent) (Response, error) {
	fields := intent.Fields
	if fields == nil || fields.StartTime == "" || fields.EndTime == "" {
		msg := "I need both a start and an end time to create an event, for example 'tomorrow from 2 to 3 PM'."
		return a.respond(intent, false, msg, Suggestions{Suggestions: examplePrompts}), ErrMissingTimes
	}

	summary := fields.Summary
	if summary == "" {
		summary = "Event"
	}
	tz := fields.Timezone
	if tz == "" {
		tz = a.location.String()
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: fields.Description,
		Location:    fields.Location,
		Start:       calendar.EventTime{DateTime: fields.StartTime, TimeZone: tz},
		End:         calendar.EventTime{DateTime: fields.EndTime, TimeZone: tz},
	}
	names := make([]string, 0, len(fields.Attendees))
	for _, attendee := range fields.Attendees {
		event.Attendees = append(event.Attendees, calendar.Attendee{Email: attendee.Email, DisplayName: attendee.Name})
		name := attendee.Name
		if name == "" {
			name = attendee.Email
		}
		names = append(names, name)
	}

	created, err := a.calendar.CreateEvent(ctx, event)
	if err != nil {
		a.logger.Error("failed to create event", err, "summary", summary)
		return a.respond(intent, false, fmt.Sprintf("Failed to create '%s': %v", summary, err), nil), err
	}

	msg := fmt.Sprintf("Successfully created '%s' in your calendar.", created.Summary)
	if len(names) > 0 {
		msg += fmt.Sprintf(" Attendees: %s.", strings.Join(names, ", "))
	}
	a.logger.Info("event created", "event_id", created.ID)
	return a.respond(intent, true, msg, CreatedEvent{Event: created}), nil
}

func (a *AssistantImpl) getEvents(ctx context.Context, utterance string, intent nlu.ActionIntent) (Response, error) {
	now := a.now().In(a.location)
	window, filtered := nlu.ExtractDateWindow(utterance, now)
	query := a.defaultQuery(now)
	if filtered {
		query.From, query.To = window.From, window.To
	}

	events, err := a.calendar.ListEvents(ctx, query)
	if err != nil {
		a.logger.Error("failed to list events", err)
		return a.respond(intent, false, fmt.Sprintf("Failed to fetch your events: %v", err), nil), err
	}

	if filtered {
		events = a.inWindow(events, window)
	}

	payload := EventList{Items: events, Count: len(events)}
	if filtered {
		payload.From = window.From.Format(calendar.DateLayout)
		payload.To = window.To.AddDate(0, 0, -1).Format(calendar.DateLayout)
	}
	if payload.Items == nil {
		payload.Items = []*calendar.Event{}
	}

	var msg string
	switch {
	case len(events) == 0:
		msg = "You have no events in that period."
	case len(events) == 1:
		msg = "Found 1 event."
	default:
		msg = fmt.Sprintf("Found %d events.", len(events))
	}
	return a.respond(intent, true, msg, payload), nil
}

func (a *AssistantImpl) modifyEvent(ctx context.Context, utterance string, intent nlu.ActionIntent) (Response, error) {
	matches, err := a.findMatches(ctx, utterance, intent)
	if err != nil {
		a.logger.Error("failed to fetch candidate events", err)
		return a.respond(intent, false, fmt.Sprintf("Failed to fetch your events: %v", err), nil), err
	}

	switch {
	case len(matches) == 0:
		a.telemetry.RecordMatches(ctx, string(intent.Action), OutcomeNone, 0)
		msg := "I couldn't find any events matching your request. Try adding more detail."
		return a.respond(intent, false, msg, Suggestions{Suggestions: refinePrompts}), nil

	case len(matches) > 1:
		a.telemetry.RecordMatches(ctx, string(intent.Action), OutcomeAmbiguous, len(matches))
		top := matches
		if limit := a.cfg.MaxCandidates; limit > 0 && len(top) > limit {
			top = top[:limit]
		}
		msg := fmt.Sprintf("Found %d events matching your request. Please be more specific about which one you mean.", len(matches))
		return a.respond(intent, false, msg, Candidates{Items: top, Count: len(top)}), nil
	}

	a.telemetry.RecordMatches(ctx, string(intent.Action), OutcomeSingle, 1)
	match := matches[0]
	if intent.Action == nlu.ActionUpdateEvent {
		// TODO: add UpdateEvent to calendar.Service and merge intent.Fields into the match
		msg := fmt.Sprintf("Found '%s'. Changing event details is not supported yet, so the event was left as it is.", match.Event.Summary)
		return a.respond(intent, true, msg, MatchedEvent{
			Event:     match.Event,
			Score:     match.Score,
			Reasons:   match.Reasons,
			Requested: intent.Fields,
		}), nil
	}

	err = a.calendar.DeleteEvent(ctx, match.Event.ID, calendar.NotifyPolicy(a.calCfg.SendUpdates))
	switch {
	case errors.Is(err, calendar.ErrAlreadyDeleted):
		a.logger.Info("event was already deleted", "event_id", match.Event.ID)
		return a.respond(intent, true, fmt.Sprintf("'%s' was already deleted.", match.Event.Summary), DeletedEvent{Event: match.Event, AlreadyDeleted: true}), nil
	case err != nil:
		a.logger.Error("failed to delete event", err, "event_id", match.Event.ID)
		return a.respond(intent, false, fmt.Sprintf("Failed to delete '%s': %v", match.Event.Summary, err), nil), err
	}
	a.logger.Info("event deleted", "event_id", match.Event.ID)
	return a.respond(intent, true, fmt.Sprintf("Successfully deleted '%s' from your calendar.", match.Event.Summary), DeletedEvent{Event: match.Event}), nil
}

// findMatches resolves the target event directly when the intent carries an
// id, and ranks the upcoming events otherwise
func (a *AssistantImpl) findMatches(ctx context.Context, utterance string, intent nlu.ActionIntent) ([]matcher.MatchResult, error) {
	if intent.Fields != nil && intent.Fields.EventID != "" {
		event, err := a.calendar.GetEvent(ctx, intent.Fields.EventID)
		switch {
		case err == nil:
			return []matcher.MatchResult{{Event: event, Score: 1, Reasons: []string{"Event id given"}}}, nil
		case !errors.Is(err, calendar.ErrEventNotFound):
			return nil, err
		}
		a.logger.Debug("event id not found, matching by description", "event_id", intent.Fields.EventID)
	}

	events, err := a.calendar.ListEvents(ctx, a.defaultQuery(a.now().In(a.location)))
	if err != nil {
		return nil, err
	}
	return a.matcher.Match(ctx, utterance, events), nil
}

func (a *AssistantImpl) defaultQuery(now time.Time) calendar.Query {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.location)
	return calendar.Query{
		From:       from,
		To:         from.AddDate(0, 0, a.calCfg.LookaheadDays),
		MaxResults: a.calCfg.MaxResults,
	}
}

// inWindow keeps events whose timed start or all-day date is in the window
func (a *AssistantImpl) inWindow(events []*calendar.Event, window nlu.DateWindow) []*calendar.Event {
	var out []*calendar.Event
	for _, event := range events {
		if event == nil {
			continue
		}
		start, ok := event.StartTime(a.location)
		if ok && window.Contains(start.In(a.location)) {
			out = append(out, event)
		}
	}
	return out
}

func (a *AssistantImpl) respond(intent nlu.ActionIntent, success bool, message string, data Payload) Response {
	return Response{
		Success:         success,
		Message:         message,
		ActionPerformed: intent.Action,
		Confidence:      intent.Confidence,
		Reasoning:       intent.Reasoning,
		Data:            data,
		Timestamp:       a.now().UTC(),
	}
}
