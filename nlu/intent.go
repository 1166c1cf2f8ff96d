// Package nlu turns free-form calendar requests into structured intents.
package nlu

import (
	"context"
	"net/http"
)

// Action is what the user wants done with the calendar
type Action string

const (
	ActionCreateEvent Action = "create_event"
	ActionGetEvents   Action = "get_events"
	ActionUpdateEvent Action = "update_event"
	ActionDeleteEvent Action = "delete_event"
	ActionUnknown     Action = "unknown"
)

// Valid reports whether a is one of the known actions
func (a Action) Valid() bool {
	switch a {
	case ActionCreateEvent, ActionGetEvents, ActionUpdateEvent, ActionDeleteEvent, ActionUnknown:
		return true
	}
	return false
}

// Route returns the HTTP endpoint and method that perform the action directly
func (a Action) Route() (endpoint, method string) {
	switch a {
	case ActionCreateEvent:
		return "/create-event", http.MethodPost
	case ActionGetEvents:
		return "/listevents", http.MethodGet
	case ActionUpdateEvent:
		return "/update-event", http.MethodPut
	case ActionDeleteEvent:
		return "/delete-event", http.MethodPost
	}
	return "", ""
}

// Source tells which resolution path produced an intent
type Source string

const (
	SourceCompletion Source = "completion"
	SourceFallback   Source = "fallback"
)

// Attendee of an event to be created
type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// ParsedEventFields are the event details extracted from an utterance.
// Empty strings mean absent. Timestamps are local wall-clock values.
type ParsedEventFields struct {
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartTime   string     `json:"start_time,omitempty"`
	EndTime     string     `json:"end_time,omitempty"`
	Date        string     `json:"date,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	EventID     string     `json:"event_id,omitempty"`
}

// ActionIntent is the resolved meaning of one utterance
type ActionIntent struct {
	Action     Action             `json:"action"`
	Confidence float64            `json:"confidence"`
	Fields     *ParsedEventFields `json:"parsed_data"`
	Reasoning  string             `json:"reasoning"`
	Source     Source             `json:"source"`
	Endpoint   string             `json:"endpoint,omitempty"`
	Method     string             `json:"method,omitempty"`
}

// IntentResolver resolves an utterance, falling back to heuristics when
// the completion path fails. It never returns an error.
//
//go:generate mockgen -source=intent.go -destination=../tests/mocks/resolver.go -package=mocks
type IntentResolver interface {
	Resolve(ctx context.Context, utterance string) ActionIntent
}
