// Package matcher ranks calendar events against a free-text request so an
// update or delete can be pointed at the right event.
package matcher

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/inference-gateway/calendar-assistant/calendar"
	"github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	"github.com/inference-gateway/calendar-assistant/nlu"
	"github.com/pmezard/go-difflib/difflib"
)

// MatchResult is one scored candidate. Reasons are listed in the order the
// signals were evaluated.
type MatchResult struct {
	Event   *calendar.Event `json:"event"`
	Score   float64         `json:"match_score"`
	Reasons []string        `json:"match_reasons"`
}

var monthDayRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+0?(\d{1,2})\b`)

// Criteria are the search fields derived from a request
type Criteria struct {
	Summary   string
	StartTime time.Time
	Date      string
}

// HasDate reports whether the criteria name a concrete day
func (c Criteria) HasDate() bool {
	return !c.StartTime.IsZero() || c.Date != ""
}

// CriteriaFromFields converts parsed fields, ignoring unparseable values
func CriteriaFromFields(fields *nlu.ParsedEventFields, loc *time.Location) Criteria {
	if fields == nil {
		return Criteria{}
	}
	c := Criteria{Summary: strings.TrimSpace(fields.Summary)}
	if fields.StartTime != "" {
		if t, err := calendar.ParseTime(fields.StartTime, loc); err == nil {
			c.StartTime = t
		}
	}
	if _, err := time.Parse(calendar.DateLayout, fields.Date); err == nil {
		c.Date = fields.Date
	}
	return c
}

// EventMatcher scores candidate events against an utterance
type EventMatcher interface {
	Match(ctx context.Context, utterance string, events []*calendar.Event) []MatchResult
}

type EventMatcherImpl struct {
	cfg      config.MatcherConfig
	resolver nlu.IntentResolver
	location *time.Location
	now      func() time.Time
	logger   l.Logger
}

func NewEventMatcher(cfg *config.MatcherConfig, resolver nlu.IntentResolver, loc *time.Location, now func() time.Time, logger l.Logger) EventMatcher {
	if now == nil {
		now = time.Now
	}
	return &EventMatcherImpl{
		cfg:      *cfg,
		resolver: resolver,
		location: loc,
		now:      now,
		logger:   logger.With("component", "matcher"),
	}
}

// Match re-derives the search criteria from the utterance and ranks events
func (m *EventMatcherImpl) Match(ctx context.Context, utterance string, events []*calendar.Event) []MatchResult {
	if len(events) == 0 {
		return nil
	}

	intent := m.resolver.Resolve(ctx, utterance)
	criteria := CriteriaFromFields(intent.Fields, m.location)
	m.logger.Debug("matching events",
		"candidates", len(events),
		"summary", criteria.Summary,
		"has_date", criteria.HasDate(),
	)

	results := Rank(m.cfg, utterance, criteria, events, m.now().In(m.location), m.location)
	m.logger.Debug("events matched", "matches", len(results))
	return results
}

// Rank scores every event, drops weak matches and orders the rest by
// descending score. When more than one match survives and the request names
// a day, only matches on that day are kept, unless none are.
func Rank(cfg config.MatcherConfig, utterance string, criteria Criteria, events []*calendar.Event, now time.Time, loc *time.Location) []MatchResult {
	var results []MatchResult
	for _, event := range events {
		if event == nil {
			continue
		}
		score, reasons := Score(cfg, utterance, criteria, event, now, loc)
		if score <= cfg.MinScore {
			continue
		}
		results = append(results, MatchResult{Event: event, Score: score, Reasons: reasons})
	}
	sortByScore(results)

	if len(results) <= 1 {
		return results
	}
	target, ok := targetDate(strings.ToLower(utterance), criteria, now, loc)
	if !ok {
		return results
	}

	var onTarget []MatchResult
	for _, r := range results {
		if date, ok := r.Event.StartDate(loc); ok && date == target {
			onTarget = append(onTarget, r)
		}
	}
	if len(onTarget) == 0 {
		return results
	}
	sortByScore(onTarget)
	return onTarget
}

// Score adds up the independent title, date and time signals for one event
func Score(cfg config.MatcherConfig, utterance string, criteria Criteria, event *calendar.Event, now time.Time, loc *time.Location) (float64, []string) {
	var (
		score     float64
		reasons   []string
		titleHit  bool
		dateHit   bool
		lowerText = strings.ToLower(utterance)
		title     = strings.ToLower(event.Summary)
		summary   = strings.ToLower(criteria.Summary)
	)
	add := func(weight float64, reason string) {
		score += weight
		reasons = append(reasons, reason)
	}

	if summary != "" && title != "" {
		if strings.Contains(title, summary) {
			add(cfg.TitleContainsWeight, fmt.Sprintf("Title contains '%s'", criteria.Summary))
			titleHit = true
		} else if ratio := similarity(summary, title); ratio > cfg.SimilarityThreshold {
			add(ratio*cfg.SimilarityWeight, fmt.Sprintf("Title similarity (%.2f)", ratio))
			titleHit = true
		}
	}

	for _, word := range tokens(title) {
		if utf8.RuneCountInString(word) > 3 && strings.Contains(lowerText, word) {
			add(cfg.TitleKeywordWeight, fmt.Sprintf("Contains keyword '%s'", word))
			titleHit = true
			break
		}
	}

	if title != "" {
		for _, word := range tokens(lowerText) {
			if utf8.RuneCountInString(word) > 2 && strings.Contains(title, word) {
				add(cfg.UtteranceWordWeight, fmt.Sprintf("Contains name/word '%s'", word))
				titleHit = true
				break
			}
		}
	}

	eventDate, hasDate := event.StartDate(loc)
	if hasDate {
		today := now.In(loc).Format(calendar.DateLayout)
		tomorrow := now.In(loc).AddDate(0, 0, 1).Format(calendar.DateLayout)
		mentionsToday := strings.Contains(lowerText, "today")
		mentionsTomorrow := strings.Contains(lowerText, "tomorrow")

		switch {
		case mentionsToday && eventDate == today:
			add(cfg.DateWeight, "Date matches 'today'")
			dateHit = true
		case mentionsTomorrow && eventDate == tomorrow:
			add(cfg.DateWeight, "Date matches 'tomorrow'")
			dateHit = true
		case !criteria.StartTime.IsZero() && criteria.StartTime.In(loc).Format(calendar.DateLayout) == eventDate:
			add(cfg.DateWeight, "Date matches specified date")
			dateHit = true
		case criteria.Date != "" && criteria.Date == eventDate:
			add(cfg.DateWeight, "Date matches specified date")
			dateHit = true
		}

		if label, ok := monthDayMentioned(lowerText, eventDate); ok {
			add(cfg.MonthDayWeight, fmt.Sprintf("Date matches '%s'", label))
			dateHit = true
		}

		switch {
		case mentionsToday && eventDate != today:
			add(-cfg.DatePenalty, "Date does NOT match 'today' (penalty applied)")
		case mentionsTomorrow && eventDate != tomorrow:
			add(-cfg.DatePenalty, "Date does NOT match 'tomorrow' (penalty applied)")
		}
	}

	if !criteria.StartTime.IsZero() && event.Timed() {
		if start, ok := event.StartTime(loc); ok {
			delta := start.Sub(criteria.StartTime)
			if delta < 0 {
				delta = -delta
			}
			if delta <= cfg.TimeWindow {
				add(cfg.TimeWeight, "Time matches closely")
			}
		}
	}

	if titleHit && dateHit {
		add(cfg.CombinedBonus, "Bonus: matches both title and date")
	}
	return score, reasons
}

// targetDate is the day a request refers to, if any
func targetDate(lowerText string, criteria Criteria, now time.Time, loc *time.Location) (string, bool) {
	local := now.In(loc)
	switch {
	case strings.Contains(lowerText, "tomorrow"):
		return local.AddDate(0, 0, 1).Format(calendar.DateLayout), true
	case strings.Contains(lowerText, "today"):
		return local.Format(calendar.DateLayout), true
	case !criteria.StartTime.IsZero():
		return criteria.StartTime.In(loc).Format(calendar.DateLayout), true
	case criteria.Date != "":
		return criteria.Date, true
	}
	return "", false
}

func monthDayMentioned(lowerText, eventDate string) (string, bool) {
	d, err := time.Parse(calendar.DateLayout, eventDate)
	if err != nil {
		return "", false
	}
	month := strings.ToLower(d.Month().String())
	for _, m := range monthDayRe.FindAllStringSubmatch(lowerText, -1) {
		if day, err := strconv.Atoi(m[2]); err == nil && m[1] == month && day == d.Day() {
			return fmt.Sprintf("%s %d", d.Month(), d.Day()), true
		}
	}
	return "", false
}

func similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func sortByScore(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
