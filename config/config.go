package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the configuration for the calendar assistant.
//
//go:generate go run ../cmd/generate/main.go -type=Env -output=../examples/.env.example
//go:generate go run ../cmd/generate/main.go -type=ConfigMap -output=../examples/kubernetes/configmap.yaml
//go:generate go run ../cmd/generate/main.go -type=Secret -output=../examples/kubernetes/secret.yaml
//go:generate go run ../cmd/generate/main.go -type=MD -output=../Configurations.md
type Config struct {
	// General settings
	ApplicationName string `env:"APPLICATION_NAME, default=calendar-assistant" description:"The name of the application"`
	Environment     string `env:"ENVIRONMENT, default=production" description:"The environment"`
	EnableTelemetry bool   `env:"ENABLE_TELEMETRY, default=false" description:"Enable telemetry"`
	EnableAuth      bool   `env:"ENABLE_AUTH, default=false" description:"Enable authentication"`

	// Auth settings
	OIDC *OIDC `env:", prefix=OIDC_" description:"OIDC configuration"`

	// Server settings
	Server *ServerConfig `env:", prefix=SERVER_" description:"Server configuration"`

	// Calendar backend settings
	Calendar *CalendarConfig `env:", prefix=CALENDAR_" description:"Calendar configuration"`

	// Completion backend settings
	Completion *CompletionConfig `env:", prefix=COMPLETION_" description:"Completion configuration"`

	// Assistant settings
	Assistant *AssistantConfig `env:", prefix=ASSISTANT_" description:"Assistant configuration"`

	// Event matcher settings
	Matcher *MatcherConfig `env:", prefix=MATCHER_" description:"Event matcher configuration"`
}

// OIDC configuration
type OIDC struct {
	IssuerURL    string `env:"ISSUER_URL, default=http://keycloak:8080/realms/calendar-assistant-realm" description:"OIDC issuer URL"`
	ClientID     string `env:"CLIENT_ID, default=calendar-assistant-client" type:"secret" description:"OIDC client ID"`
	ClientSecret string `env:"CLIENT_SECRET" type:"secret" description:"OIDC client secret"`
}

// Server configuration
type ServerConfig struct {
	Host         string        `env:"HOST, default=0.0.0.0" description:"Server host"`
	Port         string        `env:"PORT, default=8080" description:"Server port"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=30s" description:"Read timeout"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=60s" description:"Write timeout"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT, default=120s" description:"Idle timeout"`
	TLSCertPath  string        `env:"TLS_CERT_PATH" description:"TLS certificate path"`
	TLSKeyPath   string        `env:"TLS_KEY_PATH" description:"TLS key path"`
	RateLimit    float64       `env:"RATE_LIMIT, default=5" description:"Requests per second allowed per client on the assistant routes"`
	RateBurst    int           `env:"RATE_BURST, default=10" description:"Burst size for the assistant routes rate limiter"`
}

// Calendar configuration
type CalendarConfig struct {
	ID              string `env:"ID, default=primary" description:"Calendar ID to operate on"`
	CredentialsPath string `env:"CREDENTIALS_PATH, default=credentials.json" description:"Path to the Google OAuth client or service account credentials file"`
	TokenPath       string `env:"TOKEN_PATH, default=token.json" description:"Path to the stored OAuth user token"`
	Timezone        string `env:"TIMEZONE, default=Asia/Kolkata" description:"Timezone used for new events and relative dates"`
	LookaheadDays   int    `env:"LOOKAHEAD_DAYS, default=30" description:"Number of days of events fetched when listing or matching"`
	MaxResults      int64  `env:"MAX_RESULTS, default=250" description:"Maximum number of events fetched per listing"`
	SendUpdates     string `env:"SEND_UPDATES, default=all" description:"Attendee notification policy on delete (all, externalOnly, none)"`
	DemoMode        bool   `env:"DEMO_MODE, default=false" description:"Use an in-memory calendar instead of Google Calendar"`
}

// Completion configuration
type CompletionConfig struct {
	Provider    string        `env:"PROVIDER, default=google" description:"Completion provider (google, openai, groq, deepseek, ollama)"`
	Model       string        `env:"MODEL, default=gemini-1.5-flash" description:"Completion model"`
	APIKey      string        `env:"API_KEY" type:"secret" description:"Completion provider API key"`
	APIURL      string        `env:"API_URL" description:"Completion provider base URL, the provider default when empty"`
	Timeout     time.Duration `env:"TIMEOUT, default=30s" description:"Timeout of a single completion call"`
	Temperature float32       `env:"TEMPERATURE, default=0" description:"Sampling temperature"`
}

// Assistant configuration
type AssistantConfig struct {
	ConfidenceThreshold float64 `env:"CONFIDENCE_THRESHOLD, default=0.5" description:"Minimum intent confidence required to act"`
	FallbackConfidence  float64 `env:"FALLBACK_CONFIDENCE, default=0.6" description:"Confidence assigned to keyword fallback intents"`
	MaxCandidates       int     `env:"MAX_CANDIDATES, default=5" description:"Number of candidates returned when a request is ambiguous"`
}

// Matcher configuration
type MatcherConfig struct {
	TitleContainsWeight float64       `env:"TITLE_CONTAINS_WEIGHT, default=0.5" description:"Score when the searched title is contained in the event title"`
	SimilarityThreshold float64       `env:"SIMILARITY_THRESHOLD, default=0.6" description:"Minimum fuzzy title ratio counted as a signal"`
	SimilarityWeight    float64       `env:"SIMILARITY_WEIGHT, default=0.4" description:"Multiplier applied to the fuzzy title ratio"`
	TitleKeywordWeight  float64       `env:"TITLE_KEYWORD_WEIGHT, default=0.3" description:"Score when an event title word appears in the request"`
	UtteranceWordWeight float64       `env:"UTTERANCE_WORD_WEIGHT, default=0.4" description:"Score when a request word appears in the event title"`
	DateWeight          float64       `env:"DATE_WEIGHT, default=0.6" description:"Score when the event date matches today, tomorrow or the searched date"`
	MonthDayWeight      float64       `env:"MONTH_DAY_WEIGHT, default=0.5" description:"Score when the request names the event month and day"`
	DatePenalty         float64       `env:"DATE_PENALTY, default=0.2" description:"Penalty when today or tomorrow is requested but the event date differs"`
	TimeWeight          float64       `env:"TIME_WEIGHT, default=0.3" description:"Score when the event starts close to the searched time"`
	TimeWindow          time.Duration `env:"TIME_WINDOW, default=30m" description:"Maximum distance between searched and event start times"`
	CombinedBonus       float64       `env:"COMBINED_BONUS, default=0.3" description:"Bonus when both a title and a date signal fired"`
	MinScore            float64       `env:"MIN_SCORE, default=0.2" description:"Matches scoring at or below this value are discarded"`
}

// Location resolves the configured calendar timezone
func (c *CalendarConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load configuration
func (cfg *Config) Load(lookuper envconfig.Lookuper) (Config, error) {
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}

	if _, err := cfg.Calendar.Location(); err != nil {
		return Config{}, err
	}

	if cfg.Assistant.ConfidenceThreshold < 0 || cfg.Assistant.ConfidenceThreshold > 1 {
		return Config{}, fmt.Errorf("assistant confidence threshold must be within [0, 1], got %v", cfg.Assistant.ConfidenceThreshold)
	}

	return *cfg, nil
}
