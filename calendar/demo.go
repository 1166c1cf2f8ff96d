package calendar

import "time"

// DemoEvents returns a small week of sample events around now, used to seed
// the in-memory calendar in demo mode
func DemoEvents(now time.Time, loc *time.Location) []*Event {
	now = now.In(loc)
	day := func(offset, hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+offset, hour, minute, 0, 0, loc)
	}
	timed := func(t time.Time) EventTime {
		return EventTime{DateTime: t.Format(time.RFC3339), TimeZone: loc.String()}
	}

	return []*Event{
		{
			ID:      "demo-standup",
			Summary: "Daily Standup",
			Start:   timed(day(0, 9, 30)),
			End:     timed(day(0, 9, 45)),
		},
		{
			ID:        "demo-sync",
			Summary:   "Team Sync",
			Location:  "Conference Room 3",
			Start:     timed(day(1, 10, 0)),
			End:       timed(day(1, 11, 0)),
			Attendees: []Attendee{{Email: "john@example.com", DisplayName: "John"}},
		},
		{
			ID:      "demo-dentist",
			Summary: "Dentist Appointment",
			Start:   timed(day(2, 16, 0)),
			End:     timed(day(2, 17, 0)),
		},
		{
			ID:      "demo-offsite",
			Summary: "Team Offsite",
			Start:   EventTime{Date: day(4, 0, 0).Format(DateLayout)},
			End:     EventTime{Date: day(5, 0, 0).Format(DateLayout)},
		},
	}
}
