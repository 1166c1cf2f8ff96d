package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inference-gateway/calendar-assistant/api"
	"github.com/inference-gateway/calendar-assistant/assistant"
	"github.com/inference-gateway/calendar-assistant/calendar"
	"github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	"github.com/inference-gateway/calendar-assistant/matcher"
	"github.com/inference-gateway/calendar-assistant/nlu"
	"github.com/inference-gateway/calendar-assistant/otel"
	"github.com/inference-gateway/calendar-assistant/tests/mocks"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockService, *mocks.MockLogger, *time.Location) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	var cfg config.Config
	cfg, err := cfg.Load(envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2025, 7, 27, 9, 0, 0, 0, loc) }

	resolver := nlu.NewResolver(nil, nlu.NewFallback(cfg.Assistant.FallbackConfidence, loc), now, l.NewNoOpLogger())
	eventMatcher := matcher.NewEventMatcher(cfg.Matcher, resolver, loc, now, l.NewNoOpLogger())
	a, err := assistant.NewAssistant(cfg, resolver, eventMatcher, mockService, otel.NewNoopTelemetry(), now, l.NewNoOpLogger())
	require.NoError(t, err)

	router, err := api.NewRouter(cfg, mockLogger, mockService, a, resolver, now)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", router.HealthcheckHandler)
	r.GET("/calendar/ids", router.ListCalendarsHandler)
	r.GET("/listevents", router.ListEventsHandler)
	r.GET("/events/:id", router.GetEventHandler)
	r.POST("/create-event", router.CreateEventHandler)
	r.POST("/delete-event", router.DeleteEventHandler)
	r.POST("/ai/calendar", router.AssistantHandler)
	r.POST("/ai/parse", router.ParseHandler)
	r.NoRoute(router.NotFoundHandler)

	return r, mockService, mockLogger, loc
}

func permissiveLogger(ml *mocks.MockLogger) {
	ml.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	ml.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	ml.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	ml.EXPECT().Error(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
}

func perform(r *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		var payload []byte
		if s, ok := body.(string); ok {
			payload = []byte(s)
		} else {
			payload, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthcheckHandler(t *testing.T) {
	router, _, mockLogger, _ := setupTestRouter(t)
	mockLogger.EXPECT().Debug("healthcheck")

	w := perform(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())
}

func TestNotFoundHandler(t *testing.T) {
	router, _, mockLogger, _ := setupTestRouter(t)
	permissiveLogger(mockLogger)

	w := perform(router, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Requested route is not found"}`, w.Body.String())
}

func TestListCalendarsHandler(t *testing.T) {
	router, mockService, mockLogger, _ := setupTestRouter(t)
	permissiveLogger(mockLogger)
	mockService.EXPECT().ListCalendars(gomock.Any()).Return([]calendar.CalendarInfo{
		{ID: "primary", Summary: "Me", Primary: true},
		{ID: "team@group.calendar.google.com", Summary: "Team"},
	}, nil)

	w := perform(router, http.MethodGet, "/calendar/ids", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.CalendarsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestListEventsHandler(t *testing.T) {
	tests := []struct {
		name         string
		events       []*calendar.Event
		err          error
		expectedCode int
		expectedLen  int
	}{
		{
			name: "Events in the lookahead window",
			events: []*calendar.Event{
				{ID: "a", Summary: "Standup", Start: calendar.EventTime{DateTime: "2025-07-27T10:00:00+05:30"}},
				{ID: "b", Summary: "Team Sync", Start: calendar.EventTime{DateTime: "2025-07-28T10:00:00+05:30"}},
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name:         "Empty calendar",
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name:         "Backend rejects the token",
			err:          &calendar.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials"},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService, mockLogger, loc := setupTestRouter(t)
			permissiveLogger(mockLogger)
			from := time.Date(2025, 7, 27, 0, 0, 0, 0, loc)
			mockService.EXPECT().
				ListEvents(gomock.Any(), calendar.Query{From: from, To: from.AddDate(0, 0, 30), MaxResults: 250}).
				Return(tt.events, tt.err)

			w := perform(router, http.MethodGet, "/listevents", nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}
			var resp api.EventsResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedLen, resp.Count)
			assert.Len(t, resp.Items, tt.expectedLen)
		})
	}
}

func TestGetEventHandler(t *testing.T) {
	router, mockService, mockLogger, _ := setupTestRouter(t)
	permissiveLogger(mockLogger)
	mockService.EXPECT().GetEvent(gomock.Any(), "missing").Return(nil, calendar.ErrEventNotFound)
	mockService.EXPECT().GetEvent(gomock.Any(), "evt-1").Return(&calendar.Event{ID: "evt-1", Summary: "Interview"}, nil)

	w := perform(router, http.MethodGet, "/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodGet, "/events/evt-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"summary":"Interview"`)
}

func TestCreateEventHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         interface{}
		setupMocks   func(*mocks.MockService)
		expectedCode int
	}{
		{
			name: "Timed event",
			body: gin.H{
				"summary":   "Team Sync",
				"start":     gin.H{"dateTime": "2025-07-28T10:00:00"},
				"end":       gin.H{"dateTime": "2025-07-28T10:30:00"},
				"attendees": []gin.H{{"email": "john@example.com", "displayName": "John"}},
			},
			setupMocks: func(ms *mocks.MockService) {
				ms.EXPECT().
					CreateEvent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, event *calendar.Event) (*calendar.Event, error) {
						assert.Equal(t, "Asia/Kolkata", event.Start.TimeZone)
						assert.Equal(t, []calendar.Attendee{{Email: "john@example.com", DisplayName: "John"}}, event.Attendees)
						created := *event
						created.ID = "evt-1"
						return &created, nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "All day event",
			body: gin.H{
				"summary": "Holiday",
				"start":   gin.H{"date": "2025-08-15"},
				"end":     gin.H{"date": "2025-08-16"},
			},
			setupMocks: func(ms *mocks.MockService) {
				ms.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(&calendar.Event{ID: "evt-2", Summary: "Holiday"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Missing summary",
			body:         gin.H{"start": gin.H{"dateTime": "2025-07-28T10:00:00"}, "end": gin.H{"dateTime": "2025-07-28T10:30:00"}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Summary too long",
			body:         gin.H{"summary": strings.Repeat("x", 1025), "start": gin.H{"date": "2025-08-15"}, "end": gin.H{"date": "2025-08-16"}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Start without a time",
			body:         gin.H{"summary": "Team Sync", "end": gin.H{"dateTime": "2025-07-28T10:30:00"}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Unparseable end",
			body:         gin.H{"summary": "Team Sync", "start": gin.H{"dateTime": "2025-07-28T10:00:00"}, "end": gin.H{"dateTime": "half past ten"}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid attendee email",
			body:         gin.H{"summary": "Team Sync", "start": gin.H{"date": "2025-08-15"}, "end": gin.H{"date": "2025-08-16"}, "attendees": []gin.H{{"email": "john"}}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Malformed JSON",
			body:         `{"summary":`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService, mockLogger, _ := setupTestRouter(t)
			permissiveLogger(mockLogger)
			if tt.setupMocks != nil {
				tt.setupMocks(mockService)
			}

			w := perform(router, http.MethodPost, "/create-event", tt.body)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestDeleteEventHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         interface{}
		err          error
		callsBackend bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Deleted",
			body:         gin.H{"event_id": "evt-1"},
			callsBackend: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Event deleted successfully","event_id":"evt-1"}`,
		},
		{
			name:         "Already gone",
			body:         gin.H{"event_id": "evt-1"},
			err:          calendar.ErrAlreadyDeleted,
			callsBackend: true,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Event was already deleted","event_id":"evt-1","already_deleted":true}`,
		},
		{
			name:         "Not found",
			body:         gin.H{"event_id": "evt-1"},
			err:          calendar.ErrEventNotFound,
			callsBackend: true,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Missing id",
			body:         gin.H{},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService, mockLogger, _ := setupTestRouter(t)
			permissiveLogger(mockLogger)
			if tt.callsBackend {
				mockService.EXPECT().DeleteEvent(gomock.Any(), "evt-1", calendar.NotifyAll).Return(tt.err)
			}

			w := perform(router, http.MethodPost, "/delete-event", tt.body)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestAssistantHandler(t *testing.T) {
	tests := []struct {
		name          string
		prompt        string
		setupMocks    func(*mocks.MockService)
		expectedCode  int
		expectSuccess bool
		expectAction  string
	}{
		{
			name:   "Create from a fallback parse",
			prompt: "Create meeting with John tomorrow 2-3PM",
			setupMocks: func(ms *mocks.MockService) {
				ms.EXPECT().
					CreateEvent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, event *calendar.Event) (*calendar.Event, error) {
						created := *event
						created.ID = "evt-1"
						return &created, nil
					})
			},
			expectedCode:  http.StatusOK,
			expectSuccess: true,
			expectAction:  "create_event",
		},
		{
			name:          "Create without times",
			prompt:        "add project review",
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
			expectAction:  "create_event",
		},
		{
			name:          "Unknown request",
			prompt:        "what's the weather like",
			expectedCode:  http.StatusBadRequest,
			expectSuccess: false,
			expectAction:  "unknown",
		},
		{
			name:   "Calendar failure keeps the backend status",
			prompt: "show my events for today",
			setupMocks: func(ms *mocks.MockService) {
				ms.EXPECT().ListEvents(gomock.Any(), gomock.Any()).Return(nil, &calendar.APIError{StatusCode: http.StatusTooManyRequests, Message: "slow down"})
			},
			expectedCode:  http.StatusTooManyRequests,
			expectSuccess: false,
			expectAction:  "get_events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService, mockLogger, _ := setupTestRouter(t)
			permissiveLogger(mockLogger)
			if tt.setupMocks != nil {
				tt.setupMocks(mockService)
			}

			w := perform(router, http.MethodPost, "/ai/calendar", gin.H{"prompt": tt.prompt})

			assert.Equal(t, tt.expectedCode, w.Code)
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectSuccess, resp["success"])
			assert.Equal(t, tt.expectAction, resp["action_performed"])
			assert.NotEmpty(t, resp["message"])
			assert.NotEmpty(t, resp["reasoning"])
			assert.Contains(t, resp, "timestamp")
		})
	}
}

func TestAssistantHandler_PromptValidation(t *testing.T) {
	router, _, mockLogger, _ := setupTestRouter(t)
	permissiveLogger(mockLogger)

	w := perform(router, http.MethodPost, "/ai/calendar", gin.H{"prompt": strings.Repeat("a", 2049)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPost, "/ai/calendar", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseHandler(t *testing.T) {
	router, _, mockLogger, _ := setupTestRouter(t)
	permissiveLogger(mockLogger)

	w := perform(router, http.MethodPost, "/ai/parse", gin.H{"prompt": "schedule doctor appointment at 10am"})

	assert.Equal(t, http.StatusOK, w.Code)
	var intent nlu.ActionIntent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &intent))
	assert.Equal(t, nlu.ActionCreateEvent, intent.Action)
	assert.Equal(t, nlu.SourceFallback, intent.Source)
	require.NotNil(t, intent.Fields)
	assert.Equal(t, "Doctor Appointment", intent.Fields.Summary)
	assert.Equal(t, "2025-07-27T10:00:00", intent.Fields.StartTime)
}
