package nlu

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SummaryExtractor derives an event title from an utterance
type SummaryExtractor interface {
	Summary(utterance string) string
}

// DescriptionExtractor derives a longer description, given the title
type DescriptionExtractor interface {
	Description(utterance, summary string) string
}

// LocationExtractor finds where an event takes place
type LocationExtractor interface {
	Location(utterance string) string
}

const (
	defaultSummary   = "Event"
	summaryWordLimit = 4
)

// clause terminators shared by the phrase patterns
const phraseEnd = `(?:\s+(?:on|at|by|for|from|in|with|about|regarding|tomorrow|today|tonight|next|this|and)\b|\s+\d|\s*[(,.!?;]|$)`

var (
	tripRe        = regexp.MustCompile(`(?i)\b(?:going|travel(?:l?ing)?|trip|flying|flight)\s+to\s+([a-z][a-z .'-]*?)` + phraseEnd)
	meetingRe     = regexp.MustCompile(`(?i)\bmeeting\s+with\s+([a-z][a-z .'-]*?)` + phraseEnd)
	appointmentRe = regexp.MustCompile(`(?i)\b([a-z][a-z'-]*)\s+appointment\b`)
	classRe       = regexp.MustCompile(`(?i)\b([a-z0-9][a-z0-9'-]*)\s+(class|lesson|training)\b`)
	clockTokenRe  = regexp.MustCompile(`^\d+(?:am|pm|st|nd|rd|th)?$`)
	venueRe       = regexp.MustCompile(`(?i)\b(?:in|at)\s+((?:the\s+)?(?:[\w-]+\s+){0,3}?(?:room|hall|office|building|center|centre|lab|library|auditorium|cafe|cafeteria|restaurant|clinic|hospital|campus|school|college|university|park|gym|studio|lobby|stadium)\b(?:\s+(?:\d+[a-z]?|[a-z]\d*)\b)?)`)
	properPlaceRe = regexp.MustCompile(`\b(?:in|at)\s+([A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)*)`)
)

var titleCaser = cases.Title(language.English)

var stopwords = toSet(
	"a", "an", "the", "my", "me", "i", "im", "we", "our", "us", "you", "your",
	"to", "for", "on", "at", "in", "of", "and", "or", "from", "by", "with", "about",
	"this", "that", "these", "those", "it", "is", "be", "am", "pm", "are", "will",
	"please", "can", "could", "would", "should", "want", "need", "like", "let",
	"some", "there", "have", "has", "do", "just", "up", "new", "an",
	"today", "tomorrow", "tonight", "yesterday", "next", "week", "day", "after",
	"morning", "afternoon", "evening", "night", "noon", "until", "till",
	"create", "add", "schedule", "book", "make", "plan", "arrange", "organize",
	"organise", "set", "put", "event", "events", "calendar", "reminder", "remind",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
)

// PhraseExtractor recognises common calendar phrasings, falling back to the
// first meaningful words of the utterance
type PhraseExtractor struct{}

type phraseKind int

const (
	phraseNone phraseKind = iota
	phraseTrip
	phraseMeeting
	phraseAppointment
	phraseClass
	phraseSemester
)

type phrase struct {
	kind    phraseKind
	subject string
	noun    string
}

func (PhraseExtractor) Summary(utterance string) string {
	p := matchPhrase(utterance)
	switch p.kind {
	case phraseTrip:
		return "Trip to " + p.subject
	case phraseMeeting:
		return "Meeting with " + p.subject
	case phraseAppointment:
		return p.subject + " Appointment"
	case phraseClass:
		return p.subject + " Class"
	case phraseSemester:
		if p.subject == "" {
			return "Semester Exam"
		}
		return p.subject + " Semester Exam"
	}

	tokens := meaningfulTokens(stripPlaces(utterance))
	if len(tokens) == 0 {
		return defaultSummary
	}
	if len(tokens) > summaryWordLimit {
		tokens = tokens[:summaryWordLimit]
	}
	return titleCase(strings.Join(tokens, " "))
}

func (PhraseExtractor) Description(utterance, summary string) string {
	p := matchPhrase(utterance)
	switch p.kind {
	case phraseTrip:
		return "Travel to " + p.subject
	case phraseMeeting:
		return "Meeting scheduled with " + p.subject
	case phraseAppointment:
		return p.subject + " appointment scheduled"
	case phraseClass:
		return p.subject + " " + strings.ToLower(p.noun) + " session"
	case phraseSemester:
		if p.subject == "" {
			return "Semester examination"
		}
		return "Semester examination for " + p.subject
	}

	if summary == "" || summary == defaultSummary {
		return ""
	}
	return summary + " scheduled"
}

func matchPhrase(utterance string) phrase {
	if m := tripRe.FindStringSubmatch(utterance); m != nil && !startsWithStopword(m[1]) {
		return phrase{kind: phraseTrip, subject: titleCase(m[1])}
	}
	if m := meetingRe.FindStringSubmatch(utterance); m != nil && !startsWithStopword(m[1]) {
		return phrase{kind: phraseMeeting, subject: titleCase(m[1])}
	}
	if m := appointmentRe.FindStringSubmatch(utterance); m != nil && !isStopword(m[1]) {
		return phrase{kind: phraseAppointment, subject: titleCase(m[1])}
	}
	if m := classRe.FindStringSubmatch(utterance); m != nil && !isStopword(m[1]) {
		return phrase{kind: phraseClass, subject: titleCase(m[1]), noun: m[2]}
	}

	lower := strings.ToLower(utterance)
	if containsWord(lower, "semester") {
		for _, tok := range meaningfulTokens(utterance) {
			switch tok {
			case "semester", "exam", "exams", "examination", "examinations":
				continue
			}
			return phrase{kind: phraseSemester, subject: titleCase(tok)}
		}
		return phrase{kind: phraseSemester}
	}
	return phrase{}
}

// PrepositionLocator finds travel destinations, venues and proper-noun places
type PrepositionLocator struct{}

func (PrepositionLocator) Location(utterance string) string {
	if m := tripRe.FindStringSubmatch(utterance); m != nil && !startsWithStopword(m[1]) {
		return titleCase(m[1])
	}
	if m := venueRe.FindStringSubmatch(utterance); m != nil {
		venue := strings.TrimSpace(m[1])
		if len(venue) > 4 && strings.EqualFold(venue[:4], "the ") {
			venue = venue[4:]
		}
		return venue
	}
	for _, m := range properPlaceRe.FindAllStringSubmatch(utterance, -1) {
		if !isStopword(strings.ToLower(strings.Fields(m[1])[0])) {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func stripPlaces(utterance string) string {
	s := venueRe.ReplaceAllString(utterance, " ")
	return properPlaceRe.ReplaceAllString(s, " ")
}

// meaningfulTokens lower-cases, drops stopwords and clock or date tokens
func meaningfulTokens(text string) []string {
	var out []string
	for _, tok := range words(strings.ToLower(meridiemFix.Replace(text))) {
		if isStopword(tok) || clockTokenRe.MatchString(tok) {
			continue
		}
		if _, ok := months[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		r := []rune(p)
		if len(r) > 0 && unicode.IsLetter(r[0]) {
			parts[i] = titleCaser.String(p)
		}
	}
	return strings.Join(parts, " ")
}

func startsWithStopword(s string) bool {
	fields := strings.Fields(strings.ToLower(s))
	return len(fields) == 0 || isStopword(fields[0]) || actionWords[fields[0]]
}

func isStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
