package nlu

import (
	"bytes"
	"text/template"
	"time"

	"github.com/inference-gateway/calendar-assistant/calendar"
)

// Situation is the temporal context the prompt is rendered against
type Situation struct {
	Now      time.Time
	Timezone string
}

var promptTemplate = template.Must(template.New("extract").Parse(`You are a calendar assistant. Decide which action the user wants and extract the event data needed to perform it.

Actions:
- "create_event": create, add, schedule or book a new event
- "get_events": see, list, view or check calendar events
- "update_event": change, modify, reschedule or edit an existing event
- "delete_event": delete, cancel or remove an existing event
- "unknown": the intent cannot be determined

For "create_event" extract:
- summary: event title
- description: event description (optional)
- start_time: start as YYYY-MM-DDTHH:MM:SS
- end_time: end as YYYY-MM-DDTHH:MM:SS
- timezone: IANA timezone, "{{.Timezone}}" unless the user names another
- location: event location (optional)
- attendees: list of {"name", "email"} (optional)

For "update_event" and "delete_event" extract what identifies the event:
- summary: keywords of the event title (required)
- start_time: the date and time mentioned, whenever a date or time is mentioned
- date: YYYY-MM-DD whenever "today", "tomorrow", "yesterday" or a specific date is mentioned
- event_id: only if the user quotes one

For "get_events" set parsed_data to null.

Time rules:
- interpret times in {{.Timezone}} unless the user says otherwise
- a time without a date means today
- 12-hour ("10 AM", "2 PM") and 24-hour ("14:00") clocks are both valid
- without an end time assume a duration of one hour
- write local wall-clock times without offsets, never UTC

Current date and time: {{.NowText}} ({{.Timezone}})
Today's date: {{.Today}}
Tomorrow's date: {{.Tomorrow}}
Yesterday's date: {{.Yesterday}}

Examples:
- "10 AM tomorrow" gives start_time "{{.Tomorrow}}T10:00:00" and end_time "{{.Tomorrow}}T11:00:00"
- "2 PM to 3 PM today" gives start_time "{{.Today}}T14:00:00" and end_time "{{.Today}}T15:00:00"

Return ONLY a JSON object of this shape:
{
  "action": "create_event|get_events|update_event|delete_event|unknown",
  "confidence": 0.0-1.0,
  "parsed_data": {
    "summary": "event title",
    "description": "event description",
    "start_time": "{{.Today}}T10:00:00",
    "end_time": "{{.Today}}T11:00:00",
    "date": "{{.Today}}",
    "timezone": "{{.Timezone}}",
    "location": "location",
    "attendees": [{"name": "John Doe", "email": "john@example.com"}],
    "event_id": null
  } or null,
  "reasoning": "short explanation of the decision"
}

Example:
User: "Schedule an interview with Priya (priya@example.com) tomorrow from 10 AM to 11 AM in Hyderabad"
Response:
{
  "action": "create_event",
  "confidence": 0.95,
  "parsed_data": {
    "summary": "Interview with Priya",
    "description": "Interview session with Priya",
    "start_time": "{{.Tomorrow}}T10:00:00",
    "end_time": "{{.Tomorrow}}T11:00:00",
    "timezone": "{{.Timezone}}",
    "location": "Hyderabad",
    "attendees": [{"name": "Priya", "email": "priya@example.com"}]
  },
  "reasoning": "The user schedules a new interview with a time, a location and an attendee"
}

User: {{printf "%q" .Utterance}}
Response:
`))

type promptData struct {
	Timezone  string
	NowText   string
	Today     string
	Tomorrow  string
	Yesterday string
	Utterance string
}

// BuildPrompt renders the extraction prompt for an utterance
func BuildPrompt(utterance string, s Situation) (string, error) {
	now := s.Now
	data := promptData{
		Timezone:  s.Timezone,
		NowText:   now.Format("Monday, " + calendar.LocalLayout),
		Today:     now.Format(calendar.DateLayout),
		Tomorrow:  now.AddDate(0, 0, 1).Format(calendar.DateLayout),
		Yesterday: now.AddDate(0, 0, -1).Format(calendar.DateLayout),
		Utterance: utterance,
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
