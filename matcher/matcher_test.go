package matcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/inference-gateway/calendar-assistant/calendar"
	"github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	"github.com/inference-gateway/calendar-assistant/matcher"
	"github.com/inference-gateway/calendar-assistant/nlu"
	"github.com/inference-gateway/calendar-assistant/tests/mocks"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func defaults(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	cfg, err := cfg.Load(envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	return cfg
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

// now is Sunday 2025-07-27 09:00 in Asia/Kolkata
func now(t *testing.T) time.Time {
	return time.Date(2025, 7, 27, 9, 0, 0, 0, kolkata(t))
}

func timed(id, summary, start, end string) *calendar.Event {
	return &calendar.Event{
		ID:      id,
		Summary: summary,
		Start:   calendar.EventTime{DateTime: start, TimeZone: "Asia/Kolkata"},
		End:     calendar.EventTime{DateTime: end, TimeZone: "Asia/Kolkata"},
	}
}

func newMatcher(t *testing.T, resolver nlu.IntentResolver) matcher.EventMatcher {
	cfg := defaults(t)
	return matcher.NewEventMatcher(cfg.Matcher, resolver, kolkata(t), func() time.Time { return now(t) }, l.NewNoOpLogger())
}

func TestMatch_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		utterance   string
		fields      *nlu.ParsedEventFields
		events      []*calendar.Event
		wantIDs     []string
		wantScores  []float64
		wantReasons [][]string
	}{
		{
			name:      "Tomorrow narrows two events with the same title",
			utterance: "delete team sync tomorrow",
			events: []*calendar.Event{
				timed("sync-28", "Team Sync", "2025-07-28T10:00:00+05:30", "2025-07-28T10:30:00+05:30"),
				timed("sync-29", "Team Sync", "2025-07-29T10:00:00+05:30", "2025-07-29T10:30:00+05:30"),
			},
			wantIDs:    []string{"sync-28"},
			wantScores: []float64{1.6},
			wantReasons: [][]string{{
				"Contains keyword 'team'",
				"Contains name/word 'team'",
				"Date matches 'tomorrow'",
				"Bonus: matches both title and date",
			}},
		},
		{
			name:      "Title only without a date",
			utterance: "cancel my interview",
			events: []*calendar.Event{
				timed("interview", "Interview", "2025-07-28T15:00:00+05:30", "2025-07-28T16:00:00+05:30"),
			},
			wantIDs:    []string{"interview"},
			wantScores: []float64{0.7},
			wantReasons: [][]string{{
				"Contains keyword 'interview'",
				"Contains name/word 'interview'",
			}},
		},
		{
			name:      "Month and day named in the request",
			utterance: "delete dentist on July 28",
			events: []*calendar.Event{
				timed("dentist", "Dentist", "2025-07-28T11:00:00+05:30", "2025-07-28T12:00:00+05:30"),
			},
			wantIDs:    []string{"dentist"},
			wantScores: []float64{1.5},
			wantReasons: [][]string{{
				"Contains keyword 'dentist'",
				"Contains name/word 'dentist'",
				"Date matches 'July 28'",
				"Bonus: matches both title and date",
			}},
		},
		{
			name:      "Penalised event falls below the cutoff",
			utterance: "delete gym tomorrow",
			events: []*calendar.Event{
				timed("gym", "Yoga", "2025-07-30T07:00:00+05:30", "2025-07-30T08:00:00+05:30"),
			},
		},
		{
			name:      "All day event matches by date",
			utterance: "remove the offsite tomorrow",
			events: []*calendar.Event{
				{ID: "offsite", Summary: "Offsite", Start: calendar.EventTime{Date: "2025-07-28"}, End: calendar.EventTime{Date: "2025-07-29"}},
			},
			wantIDs:    []string{"offsite"},
			wantScores: []float64{1.6},
			wantReasons: [][]string{{
				"Contains keyword 'offsite'",
				"Contains name/word 'offsite'",
				"Date matches 'tomorrow'",
				"Bonus: matches both title and date",
			}},
		},
		{
			name:      "Date filter keeps the list when it would empty it",
			utterance: "cancel standup today",
			events: []*calendar.Event{
				timed("standup-1", "Standup", "2025-07-28T09:00:00+05:30", "2025-07-28T09:15:00+05:30"),
				timed("standup-2", "Standup", "2025-07-29T09:00:00+05:30", "2025-07-29T09:15:00+05:30"),
			},
			wantIDs:    []string{"standup-1", "standup-2"},
			wantScores: []float64{0.5, 0.5},
			wantReasons: [][]string{
				{"Contains keyword 'standup'", "Contains name/word 'standup'", "Date does NOT match 'today' (penalty applied)"},
				{"Contains keyword 'standup'", "Contains name/word 'standup'", "Date does NOT match 'today' (penalty applied)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			resolver := mocks.NewMockIntentResolver(ctrl)
			resolver.EXPECT().
				Resolve(gomock.Any(), tt.utterance).
				Return(nlu.ActionIntent{Action: nlu.ActionDeleteEvent, Confidence: 0.6, Fields: tt.fields})

			results := newMatcher(t, resolver).Match(context.Background(), tt.utterance, tt.events)

			require.Len(t, results, len(tt.wantIDs))
			for i, r := range results {
				assert.Equal(t, tt.wantIDs[i], r.Event.ID)
				assert.InDelta(t, tt.wantScores[i], r.Score, 1e-9)
				assert.Equal(t, tt.wantReasons[i], r.Reasons)
			}
		})
	}
}

func TestMatch_EmptyCandidatesSkipResolution(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIntentResolver(ctrl)

	results := newMatcher(t, resolver).Match(context.Background(), "delete team sync", nil)

	assert.Empty(t, results)
}

func TestMatch_SkipsNilEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIntentResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nlu.ActionIntent{Action: nlu.ActionDeleteEvent})

	events := []*calendar.Event{
		nil,
		timed("interview", "Interview", "2025-07-28T15:00:00+05:30", "2025-07-28T16:00:00+05:30"),
	}
	results := newMatcher(t, resolver).Match(context.Background(), "cancel my interview", events)

	require.Len(t, results, 1)
	assert.Equal(t, "interview", results[0].Event.ID)
}

func TestMatch_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIntentResolver(ctrl)
	resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(nlu.ActionIntent{Action: nlu.ActionDeleteEvent}).
		Times(2)

	events := []*calendar.Event{
		timed("a", "Team Sync", "2025-07-28T10:00:00+05:30", "2025-07-28T10:30:00+05:30"),
		timed("b", "Team Lunch", "2025-07-28T13:00:00+05:30", "2025-07-28T14:00:00+05:30"),
		timed("c", "Sync with vendors", "2025-07-29T10:00:00+05:30", "2025-07-29T11:00:00+05:30"),
	}
	m := newMatcher(t, resolver)

	first := m.Match(context.Background(), "move the team sync", events)
	second := m.Match(context.Background(), "move the team sync", events)

	assert.Equal(t, first, second)
	for _, r := range first {
		assert.Greater(t, r.Score, 0.2)
	}
}

func TestMatch_RoundTrip(t *testing.T) {
	loc := kolkata(t)
	fields := &nlu.ParsedEventFields{
		Summary:   "Project Kickoff",
		StartTime: "2025-07-29T15:00:00",
		EndTime:   "2025-07-29T16:00:00",
		Timezone:  "Asia/Kolkata",
	}

	service := calendar.NewMemoryService(loc, func() time.Time { return now(t) }, l.NewNoOpLogger())
	created, err := service.CreateEvent(context.Background(), &calendar.Event{
		Summary: fields.Summary,
		Start:   calendar.EventTime{DateTime: fields.StartTime, TimeZone: fields.Timezone},
		End:     calendar.EventTime{DateTime: fields.EndTime, TimeZone: fields.Timezone},
	})
	require.NoError(t, err)
	_, err = service.CreateEvent(context.Background(), timed("", "Project Kickoff", "2025-08-05T15:00:00", "2025-08-05T16:00:00"))
	require.NoError(t, err)
	_, err = service.CreateEvent(context.Background(), timed("", "Lunch", "2025-07-30T13:00:00", "2025-07-30T14:00:00"))
	require.NoError(t, err)

	events, err := service.ListEvents(context.Background(), calendar.Query{})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockIntentResolver(ctrl)
	resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(nlu.ActionIntent{Action: nlu.ActionDeleteEvent, Confidence: 0.9, Fields: fields})

	results := newMatcher(t, resolver).Match(context.Background(), "cancel project kickoff on 2025-07-29 at 3pm", events)

	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].Event.ID)
	assert.Contains(t, results[0].Reasons, "Title contains 'Project Kickoff'")
	assert.Contains(t, results[0].Reasons, "Date matches specified date")
	assert.Contains(t, results[0].Reasons, "Time matches closely")
}

func TestScore_TodayIsMonotonic(t *testing.T) {
	cfg := defaults(t)
	loc := kolkata(t)
	todayEvent := timed("today", "Team Sync", "2025-07-27T17:00:00+05:30", "2025-07-27T17:30:00+05:30")
	otherEvent := timed("other", "Team Sync", "2025-07-28T17:00:00+05:30", "2025-07-28T17:30:00+05:30")

	before, _ := matcher.Score(*cfg.Matcher, "cancel team sync", matcher.Criteria{}, todayEvent, now(t), loc)
	after, _ := matcher.Score(*cfg.Matcher, "cancel team sync today", matcher.Criteria{}, todayEvent, now(t), loc)
	assert.GreaterOrEqual(t, after, before)

	before, _ = matcher.Score(*cfg.Matcher, "cancel team sync", matcher.Criteria{}, otherEvent, now(t), loc)
	after, _ = matcher.Score(*cfg.Matcher, "cancel team sync today", matcher.Criteria{}, otherEvent, now(t), loc)
	assert.LessOrEqual(t, after, before)
}

func TestScore_Signals(t *testing.T) {
	cfg := defaults(t)
	loc := kolkata(t)
	event := timed("sync", "Team Sync", "2025-07-28T10:20:00+05:30", "2025-07-28T11:00:00+05:30")

	tests := []struct {
		name        string
		criteria    matcher.Criteria
		wantScore   float64
		wantReasons []string
	}{
		{
			name:        "Fuzzy title",
			criteria:    matcher.Criteria{Summary: "team synch"},
			wantScore:   2 * 9.0 / 19.0 * 0.4,
			wantReasons: []string{"Title similarity (0.95)"},
		},
		{
			name:        "Unrelated title",
			criteria:    matcher.Criteria{Summary: "dentist"},
			wantScore:   0,
			wantReasons: nil,
		},
		{
			name:      "Time within the window",
			criteria:  matcher.Criteria{Summary: "Team Sync", StartTime: time.Date(2025, 7, 28, 10, 0, 0, 0, loc)},
			wantScore: 0.5 + 0.6 + 0.3 + 0.3,
			wantReasons: []string{
				"Title contains 'Team Sync'",
				"Date matches specified date",
				"Time matches closely",
				"Bonus: matches both title and date",
			},
		},
		{
			name:      "Time outside the window",
			criteria:  matcher.Criteria{StartTime: time.Date(2025, 7, 28, 11, 0, 0, 0, loc)},
			wantScore: 0.6,
			wantReasons: []string{
				"Date matches specified date",
			},
		},
		{
			name:      "Date only",
			criteria:  matcher.Criteria{Date: "2025-07-28"},
			wantScore: 0.6,
			wantReasons: []string{
				"Date matches specified date",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := matcher.Score(*cfg.Matcher, "", tt.criteria, event, now(t), loc)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantReasons, reasons)
		})
	}
}

func TestCriteriaFromFields(t *testing.T) {
	loc := kolkata(t)

	c := matcher.CriteriaFromFields(&nlu.ParsedEventFields{
		Summary:   " Team Sync ",
		StartTime: "2025-07-28T10:00:00",
		Date:      "not-a-date",
	}, loc)

	assert.Equal(t, "Team Sync", c.Summary)
	assert.True(t, c.StartTime.Equal(time.Date(2025, 7, 28, 10, 0, 0, 0, loc)))
	assert.Empty(t, c.Date)
	assert.True(t, c.HasDate())
	assert.False(t, matcher.CriteriaFromFields(nil, loc).HasDate())
}

func TestScore_WordLengthCountsCharacters(t *testing.T) {
	cfg := defaults(t)
	loc := kolkata(t)

	tests := []struct {
		name        string
		utterance   string
		summary     string
		wantReasons []string
	}{
		{
			name:        "Three letter title word is not a keyword",
			utterance:   "delete çay",
			summary:     "Çay",
			wantReasons: []string{"Contains name/word 'çay'"},
		},
		{
			name:        "Two letter request word is ignored",
			utterance:   "delete né",
			summary:     "Né Review",
			wantReasons: nil,
		},
		{
			name:        "Four letter title word is a keyword",
			utterance:   "delete café",
			summary:     "Café",
			wantReasons: []string{"Contains keyword 'café'", "Contains name/word 'café'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := timed("e", tt.summary, "2025-07-30T10:00:00+05:30", "2025-07-30T11:00:00+05:30")
			_, reasons := matcher.Score(*cfg.Matcher, tt.utterance, matcher.Criteria{}, event, now(t), loc)
			assert.Equal(t, tt.wantReasons, reasons)
		})
	}
}

func TestScore_MonthDay(t *testing.T) {
	cfg := defaults(t)
	loc := kolkata(t)
	event := timed("standup", "Standup", "2025-07-08T10:00:00+05:30", "2025-07-08T10:15:00+05:30")

	tests := []struct {
		utterance string
		wantMatch bool
	}{
		{utterance: "delete the standup on july 8", wantMatch: true},
		{utterance: "delete the standup on July 08", wantMatch: true},
		{utterance: "delete the standup on july 18", wantMatch: false},
		{utterance: "delete the standup on june 8", wantMatch: false},
		{utterance: "delete the standup on july 80", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			_, reasons := matcher.Score(*cfg.Matcher, tt.utterance, matcher.Criteria{}, event, now(t), loc)
			if tt.wantMatch {
				assert.Contains(t, reasons, "Date matches 'July 8'")
			} else {
				assert.NotContains(t, reasons, "Date matches 'July 8'")
			}
		})
	}
}
