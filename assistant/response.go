package assistant

import (
	"time"

	"github.com/inference-gateway/calendar-assistant/calendar"
	"github.com/inference-gateway/calendar-assistant/matcher"
	"github.com/inference-gateway/calendar-assistant/nlu"
)

// Response is what the assistant reports back for one request
type Response struct {
	Success         bool       `json:"success"`
	Message         string     `json:"message"`
	ActionPerformed nlu.Action `json:"action_performed"`
	Confidence      float64    `json:"confidence"`
	Reasoning       string     `json:"reasoning"`
	Data            Payload    `json:"data"`
	Timestamp       time.Time  `json:"timestamp"`
}

// Payload is the action specific part of a Response. The concrete types are
// CreatedEvent, EventList, DeletedEvent, MatchedEvent, Candidates and
// Suggestions.
type Payload interface {
	payload()
}

// CreatedEvent is returned after a successful create
type CreatedEvent struct {
	Event *calendar.Event `json:"event"`
}

// EventList is the result of a listing
type EventList struct {
	Items []*calendar.Event `json:"items"`
	Count int               `json:"count"`
	From  string            `json:"from,omitempty"`
	To    string            `json:"to,omitempty"`
}

// DeletedEvent is returned after a delete, including one the backend had
// already performed
type DeletedEvent struct {
	Event          *calendar.Event `json:"event"`
	AlreadyDeleted bool            `json:"already_deleted,omitempty"`
}

// MatchedEvent is the single event an update request resolved to
type MatchedEvent struct {
	Event     *calendar.Event        `json:"event"`
	Score     float64                `json:"match_score"`
	Reasons   []string               `json:"match_reasons"`
	Requested *nlu.ParsedEventFields `json:"requested_changes,omitempty"`
}

// Candidates are returned when a request matched more than one event
type Candidates struct {
	Items []matcher.MatchResult `json:"items"`
	Count int                   `json:"count"`
}

// Suggestions are example requests for non-actionable outcomes
type Suggestions struct {
	Suggestions []string `json:"suggestions"`
}

func (CreatedEvent) payload() {}
func (EventList) payload()    {}
func (DeletedEvent) payload() {}
func (MatchedEvent) payload() {}
func (Candidates) payload()   {}
func (Suggestions) payload()  {}

var examplePrompts = []string{
	"Schedule a meeting with John tomorrow from 2 to 3 PM",
	"Show my events for today",
	"Cancel the team sync tomorrow",
	"Reschedule my interview on July 28",
}

var refinePrompts = []string{
	"Include the event title, for example 'cancel team sync'",
	"Mention the day, for example 'tomorrow' or 'July 28'",
	"Add the start time, for example 'at 3pm'",
}
