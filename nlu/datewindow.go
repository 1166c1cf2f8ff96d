package nlu

import (
	"strings"
	"time"
)

// DateWindow is a half-open [From, To) range of whole days
type DateWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// ExtractDateWindow finds the day or week a listing request is about.
// ok is false when the utterance names no date.
func ExtractDateWindow(utterance string, now time.Time) (DateWindow, bool) {
	lower := strings.ToLower(utterance)
	today := midnight(now)

	switch {
	case strings.Contains(lower, "this week"):
		return DateWindow{From: today, To: today.AddDate(0, 0, 7)}, true
	case strings.Contains(lower, "next week"):
		return DateWindow{From: today.AddDate(0, 0, 7), To: today.AddDate(0, 0, 14)}, true
	}

	if day, ok := mentionedDay(lower, now); ok {
		return DateWindow{From: day, To: day.AddDate(0, 0, 1)}, true
	}
	return DateWindow{}, false
}
