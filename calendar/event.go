package calendar

import (
	"time"
)

// LocalLayout is the wall-clock layout used for naive timestamps
const LocalLayout = "2006-01-02T15:04:05"

// DateLayout is the layout of all-day dates
const DateLayout = "2006-01-02"

// EventTime is either a timed instant (DateTime) or an all-day Date
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Attendee of an event
type Attendee struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Event as returned by a calendar backend
type Event struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Status      string     `json:"status,omitempty"`
	HTMLLink    string     `json:"htmlLink,omitempty"`
	Created     string     `json:"created,omitempty"`
	Updated     string     `json:"updated,omitempty"`
}

// CalendarInfo describes one calendar of the account
type CalendarInfo struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	TimeZone string `json:"timeZone,omitempty"`
	Primary  bool   `json:"primary,omitempty"`
}

// Query bounds a listing. Zero values mean unbounded.
type Query struct {
	From       time.Time
	To         time.Time
	MaxResults int64
}

// NotifyPolicy controls attendee notifications on mutations
type NotifyPolicy string

const (
	NotifyAll          NotifyPolicy = "all"
	NotifyExternalOnly NotifyPolicy = "externalOnly"
	NotifyNone         NotifyPolicy = "none"
)

// ParseTime parses a timed value. RFC3339 values keep their offset, naive
// wall-clock values are interpreted in loc.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(LocalLayout, value, loc)
}

// StartTime returns the event start as an instant in loc. All-day events
// start at local midnight. ok is false when the start cannot be parsed.
func (e *Event) StartTime(loc *time.Location) (t time.Time, ok bool) {
	return e.Start.instant(loc)
}

// EndTime is the counterpart of StartTime
func (e *Event) EndTime(loc *time.Location) (t time.Time, ok bool) {
	return e.End.instant(loc)
}

// Timed reports whether the event start carries a time of day
func (e *Event) Timed() bool {
	return e.Start.DateTime != ""
}

// StartDate returns the calendar date of the event start as seen in loc
func (e *Event) StartDate(loc *time.Location) (string, bool) {
	if e.Start.DateTime == "" && e.Start.Date != "" {
		if _, err := time.Parse(DateLayout, e.Start.Date); err != nil {
			return "", false
		}
		return e.Start.Date, true
	}
	t, ok := e.StartTime(loc)
	if !ok {
		return "", false
	}
	return t.In(loc).Format(DateLayout), true
}

func (et EventTime) instant(loc *time.Location) (time.Time, bool) {
	if et.DateTime != "" {
		t, err := ParseTime(et.DateTime, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if et.Date != "" {
		t, err := time.ParseInLocation(DateLayout, et.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
