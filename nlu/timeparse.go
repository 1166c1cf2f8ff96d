package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/inference-gateway/calendar-assistant/calendar"
)

// Span is a concrete start/end pair in the base moment's location
type Span struct {
	Start time.Time
	End   time.Time
}

// StartString formats the start as a local wall-clock timestamp
func (s Span) StartString() string { return s.Start.Format(calendar.LocalLayout) }

// EndString formats the end as a local wall-clock timestamp
func (s Span) EndString() string { return s.End.Format(calendar.LocalLayout) }

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayRe  = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	weekdayRe   = regexp.MustCompile(`\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	rangeRe     = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|–|\bto\b|\buntil\b|\btill\b)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	meridiemRe  = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24Re   = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	bareHourRe  = regexp.MustCompile(`\b(?:at|@)\s*(\d{1,2})\b`)
	meridiemFix = strings.NewReplacer("a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm")
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// ParseTimeExpression finds a clock time or time range in text and anchors
// it to the day the text refers to. ok is false when no time is present.
func ParseTimeExpression(text string, base time.Time) (span Span, ok bool) {
	lower := meridiemFix.Replace(strings.ToLower(text))
	day := ResolveDay(lower, base)

	// dates contain digits and hyphens the range pattern would pick up
	clock := isoDateRe.ReplaceAllString(lower, " ")
	clock = monthDayRe.ReplaceAllString(clock, " ")

	if startMin, endMin, found := findRange(clock); found {
		start, end := atMinute(day, startMin), atMinute(day, endMin)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		return Span{Start: start, End: end}, true
	}

	if startMin, found := findSingle(clock); found {
		start := atMinute(day, startMin)
		return Span{Start: start, End: start.Add(time.Hour)}, true
	}

	return Span{}, false
}

// ResolveDay returns local midnight of the day text refers to, defaulting
// to the base day
func ResolveDay(text string, base time.Time) time.Time {
	if d, ok := mentionedDay(strings.ToLower(text), base); ok {
		return d
	}
	if strings.Contains(strings.ToLower(text), "next week") {
		return midnight(base).AddDate(0, 0, 7)
	}
	return midnight(base)
}

// mentionedDay finds a single day named in lower-cased text
func mentionedDay(lower string, base time.Time) (time.Time, bool) {
	today := midnight(base)

	if m := isoDateRe.FindStringSubmatch(lower); m != nil {
		if d, err := time.ParseInLocation(calendar.DateLayout, m[0], base.Location()); err == nil {
			return d, true
		}
	}
	if d, ok := monthDay(lower, today); ok {
		return d, true
	}

	switch {
	case strings.Contains(lower, "day after tomorrow"):
		return today.AddDate(0, 0, 2), true
	case containsWord(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	case containsWord(lower, "yesterday"):
		return today.AddDate(0, 0, -1), true
	case containsWord(lower, "today"), containsWord(lower, "tonight"):
		return today, true
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		return nextWeekday(today, weekdays[m[1]]), true
	}
	return time.Time{}, false
}

func findRange(text string) (startMin, endMin int, ok bool) {
	for _, m := range rangeRe.FindAllStringSubmatch(text, -1) {
		sh, sm, smer := atoi(m[1]), atoi(m[2]), m[3]
		eh, em, emer := atoi(m[4]), atoi(m[5]), m[6]
		if !validClock(sh, sm, smer) || !validClock(eh, em, emer) {
			continue
		}
		start, end := inferRange(sh, smer, eh, emer)
		return start*60 + sm, end*60 + em, true
	}
	return 0, 0, false
}

// inferRange converts both ends to 24-hour values, borrowing the meridiem
// from whichever end carries one
func inferRange(sh int, smer string, eh int, emer string) (start, end int) {
	switch {
	case smer != "" && emer != "":
		return to24(sh, smer), to24(eh, emer)

	case smer == "" && emer == "pm":
		end = to24(eh, emer)
		switch {
		case sh == 12:
			start = 12
		case eh == 12, sh > eh:
			start = to24(sh, "am")
		default:
			start = to24(sh, "pm")
		}
		return start, end

	case smer == "" && emer == "am":
		end = to24(eh, emer)
		switch {
		case sh == 12:
			start = 12
		case sh > eh, eh == 12:
			start = sh + 12
		default:
			start = to24(sh, "am")
		}
		return start, end

	case smer != "" && emer == "":
		start = to24(sh, smer)
		end = eh
		if eh <= 12 {
			end = to24(eh, smer)
			// an end before the start belongs to the other half of the day
			if end <= start && eh < 12 {
				if smer == "pm" {
					end = to24(eh, "am")
				} else {
					end = to24(eh, "pm")
				}
			}
		}
		return start, end
	}

	return bareHour(sh), bareHour(eh)
}

func findSingle(text string) (minutes int, ok bool) {
	if m := meridiemRe.FindStringSubmatch(text); m != nil {
		h, mm := atoi(m[1]), atoi(m[2])
		if validClock(h, mm, m[3]) {
			return to24(h, m[3])*60 + mm, true
		}
	}
	if m := clock24Re.FindStringSubmatch(text); m != nil {
		return atoi(m[1])*60 + atoi(m[2]), true
	}
	if containsWord(text, "noon") {
		return 12 * 60, true
	}
	if m := bareHourRe.FindStringSubmatch(text); m != nil {
		h := atoi(m[1])
		if h <= 23 {
			return bareHour(h) * 60, true
		}
	}
	return 0, false
}

func validClock(h, m int, mer string) bool {
	if m > 59 {
		return false
	}
	if mer != "" {
		return h >= 1 && h <= 12
	}
	return h <= 23
}

func to24(h int, mer string) int {
	switch mer {
	case "am":
		if h == 12 {
			return 0
		}
	case "pm":
		if h != 12 {
			return h + 12
		}
	}
	return h
}

// bareHour reads an hour without a meridiem during working hours, so 1..7
// land in the afternoon
func bareHour(h int) int {
	if h >= 1 && h < 8 {
		return h + 12
	}
	return h
}

func monthDay(lower string, today time.Time) (time.Time, bool) {
	m := monthDayRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	day := atoi(m[2])
	month := months[m[1]]
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
	if d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

// nextWeekday returns the next occurrence of wd strictly after day
func nextWeekday(day time.Time, wd time.Weekday) time.Time {
	diff := int(wd - day.Weekday())
	if diff <= 0 {
		diff += 7
	}
	return day.AddDate(0, 0, diff)
}

func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// words splits lower-cased text into alphanumeric tokens
func words(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsWord(lower, word string) bool {
	for _, w := range words(lower) {
		if w == word {
			return true
		}
	}
	return false
}
