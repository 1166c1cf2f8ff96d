package nlu

import (
	"strings"
	"time"
)

// TimeExtractor finds the start and end an utterance refers to
type TimeExtractor interface {
	Times(utterance string, now time.Time) (Span, bool)
}

// TimeExtractorFunc adapts a function to TimeExtractor
type TimeExtractorFunc func(utterance string, now time.Time) (Span, bool)

func (f TimeExtractorFunc) Times(utterance string, now time.Time) (Span, bool) {
	return f(utterance, now)
}

type keywordRule struct {
	action    Action
	keywords  map[string]struct{}
	reasoning string
}

// checked in order, the first rule with a keyword present wins
var keywordRules = []keywordRule{
	{
		action:    ActionCreateEvent,
		keywords:  toSet("create", "add", "schedule", "book", "make", "plan", "arrange", "organize", "organise"),
		reasoning: "Detected creation keywords in prompt",
	},
	{
		action:    ActionGetEvents,
		keywords:  toSet("show", "list", "get", "view", "see", "check", "display"),
		reasoning: "Detected viewing keywords in prompt",
	},
	{
		action:    ActionUpdateEvent,
		keywords:  toSet("update", "change", "modify", "edit", "reschedule", "move", "postpone"),
		reasoning: "Detected update keywords in prompt",
	},
	{
		action:    ActionDeleteEvent,
		keywords:  toSet("delete", "remove", "cancel"),
		reasoning: "Detected delete keywords in prompt",
	},
}

// actionWords are verbs that never start a place or person name
var actionWords = func() map[string]bool {
	m := map[string]bool{}
	for _, rule := range keywordRules {
		for k := range rule.keywords {
			m[k] = true
		}
	}
	for _, w := range []string{"meet", "attend", "visit", "call", "watch", "take", "go", "have", "be", "do"} {
		m[w] = true
	}
	return m
}()

const unknownReasoning = "Could not determine intent from prompt"

// Fallback classifies utterances by keywords when the completion path fails.
// Only create requests get their fields extracted.
type Fallback struct {
	Confidence  float64
	Location    *time.Location
	Summary     SummaryExtractor
	Description DescriptionExtractor
	Place       LocationExtractor
	Times       TimeExtractor
}

// NewFallback wires the default extractors
func NewFallback(confidence float64, loc *time.Location) *Fallback {
	return &Fallback{
		Confidence:  confidence,
		Location:    loc,
		Summary:     PhraseExtractor{},
		Description: PhraseExtractor{},
		Place:       PrepositionLocator{},
		Times:       TimeExtractorFunc(ParseTimeExpression),
	}
}

// Classify returns the action whose keywords appear first in priority order
func Classify(utterance string) (Action, string) {
	tokens := words(strings.ToLower(utterance))
	for _, rule := range keywordRules {
		for _, tok := range tokens {
			if _, ok := rule.keywords[tok]; ok {
				return rule.action, rule.reasoning
			}
		}
	}
	return ActionUnknown, unknownReasoning
}

// Parse builds an intent from keywords and heuristic field extraction
func (f *Fallback) Parse(utterance string, now time.Time) ActionIntent {
	action, reasoning := Classify(utterance)
	intent := ActionIntent{
		Action:     action,
		Confidence: f.Confidence,
		Reasoning:  reasoning,
		Source:     SourceFallback,
	}
	intent.Endpoint, intent.Method = action.Route()

	if action != ActionCreateEvent {
		return intent
	}

	summary := f.Summary.Summary(utterance)
	fields := &ParsedEventFields{
		Summary:     summary,
		Description: f.Description.Description(utterance, summary),
		Location:    f.Place.Location(utterance),
		Timezone:    f.Location.String(),
	}
	if span, ok := f.Times.Times(utterance, now.In(f.Location)); ok {
		fields.StartTime = span.StartString()
		fields.EndTime = span.EndString()
	}
	intent.Fields = fields
	return intent
}
