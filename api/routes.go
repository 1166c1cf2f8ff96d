package api

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	assistant "github.com/inference-gateway/calendar-assistant/assistant"
	calendar "github.com/inference-gateway/calendar-assistant/calendar"
	config "github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	nlu "github.com/inference-gateway/calendar-assistant/nlu"
)

type Router interface {
	NotFoundHandler(c *gin.Context)
	HealthcheckHandler(c *gin.Context)
	ListCalendarsHandler(c *gin.Context)
	ListEventsHandler(c *gin.Context)
	GetEventHandler(c *gin.Context)
	CreateEventHandler(c *gin.Context)
	DeleteEventHandler(c *gin.Context)
	AssistantHandler(c *gin.Context)
	ParseHandler(c *gin.Context)
}

type RouterImpl struct {
	cfg       config.Config
	logger    l.Logger
	calendar  calendar.Service
	assistant assistant.Assistant
	resolver  nlu.IntentResolver
	location  *time.Location
	now       func() time.Time
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ResponseJSON struct {
	Message string `json:"message"`
}

// EventTimeRequest is a timed (dateTime) or all-day (date) boundary
type EventTimeRequest struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
	TimeZone string `json:"timeZone"`
}

type AttendeeRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName"`
}

type CreateEventRequest struct {
	Summary     string            `json:"summary" binding:"required,max=1024"`
	Description string            `json:"description" binding:"max=8192"`
	Location    string            `json:"location" binding:"max=1024"`
	Start       EventTimeRequest  `json:"start"`
	End         EventTimeRequest  `json:"end"`
	Attendees   []AttendeeRequest `json:"attendees" binding:"dive"`
}

type DeleteEventRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required,max=2048"`
}

type CalendarsResponse struct {
	Calendars []calendar.CalendarInfo `json:"calendars"`
	Count     int                     `json:"count"`
}

type EventsResponse struct {
	Message string            `json:"message"`
	Items   []*calendar.Event `json:"items"`
	Count   int               `json:"count"`
}

type DeleteEventResponse struct {
	Message        string `json:"message"`
	EventID        string `json:"event_id"`
	AlreadyDeleted bool   `json:"already_deleted,omitempty"`
}

func NewRouter(cfg config.Config, logger l.Logger, service calendar.Service, assistant assistant.Assistant, resolver nlu.IntentResolver, now func() time.Time) (Router, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &RouterImpl{
		cfg:       cfg,
		logger:    logger,
		calendar:  service,
		assistant: assistant,
		resolver:  resolver,
		location:  loc,
		now:       now,
	}, nil
}

func (router *RouterImpl) NotFoundHandler(c *gin.Context) {
	router.logger.Error("requested route is not found", nil, "path", c.Request.URL.Path)
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Requested route is not found"})
}

func (router *RouterImpl) HealthcheckHandler(c *gin.Context) {
	router.logger.Debug("healthcheck")
	c.JSON(http.StatusOK, ResponseJSON{Message: "OK"})
}

func (router *RouterImpl) ListCalendarsHandler(c *gin.Context) {
	calendars, err := router.calendar.ListCalendars(c.Request.Context())
	if err != nil {
		router.calendarError(c, "Failed to list calendars", err)
		return
	}
	c.JSON(http.StatusOK, CalendarsResponse{Calendars: calendars, Count: len(calendars)})
}

// ListEventsHandler lists upcoming events in the configured lookahead window
func (router *RouterImpl) ListEventsHandler(c *gin.Context) {
	now := router.now().In(router.location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, router.location)
	events, err := router.calendar.ListEvents(c.Request.Context(), calendar.Query{
		From:       from,
		To:         from.AddDate(0, 0, router.cfg.Calendar.LookaheadDays),
		MaxResults: router.cfg.Calendar.MaxResults,
	})
	if err != nil {
		router.calendarError(c, "Failed to list events", err)
		return
	}
	if events == nil {
		events = []*calendar.Event{}
	}
	c.JSON(http.StatusOK, EventsResponse{Message: "Events retrieved successfully", Items: events, Count: len(events)})
}

func (router *RouterImpl) GetEventHandler(c *gin.Context) {
	event, err := router.calendar.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		router.calendarError(c, "Failed to get event", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (router *RouterImpl) CreateEventHandler(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		router.logger.Error("failed to decode create event request", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to decode request: " + err.Error()})
		return
	}

	start, err := router.eventTime(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "start: " + err.Error()})
		return
	}
	end, err := router.eventTime(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "end: " + err.Error()})
		return
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       start,
		End:         end,
	}
	for _, a := range req.Attendees {
		event.Attendees = append(event.Attendees, calendar.Attendee{Email: a.Email, DisplayName: a.DisplayName})
	}

	created, err := router.calendar.CreateEvent(c.Request.Context(), event)
	if err != nil {
		router.calendarError(c, "Failed to create event", err)
		return
	}
	router.logger.Info("event created", "event_id", created.ID)
	c.JSON(http.StatusOK, created)
}

// DeleteEventHandler deletes by id. An event the backend already deleted is
// reported as a success.
func (router *RouterImpl) DeleteEventHandler(c *gin.Context) {
	var req DeleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		router.logger.Error("failed to decode delete event request", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to decode request: " + err.Error()})
		return
	}

	err := router.calendar.DeleteEvent(c.Request.Context(), req.EventID, calendar.NotifyPolicy(router.cfg.Calendar.SendUpdates))
	switch {
	case errors.Is(err, calendar.ErrAlreadyDeleted):
		c.JSON(http.StatusOK, DeleteEventResponse{Message: "Event was already deleted", EventID: req.EventID, AlreadyDeleted: true})
	case err != nil:
		router.calendarError(c, "Failed to delete event", err)
	default:
		c.JSON(http.StatusOK, DeleteEventResponse{Message: "Event deleted successfully", EventID: req.EventID})
	}
}

// AssistantHandler runs a natural language request end to end
func (router *RouterImpl) AssistantHandler(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		router.logger.Error("failed to decode assistant request", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to decode request: " + err.Error()})
		return
	}

	resp, err := router.assistant.Handle(c.Request.Context(), req.Prompt)
	switch {
	case errors.Is(err, assistant.ErrMissingTimes), errors.Is(err, assistant.ErrEmptyUtterance):
		c.JSON(http.StatusBadRequest, resp)
	case err != nil:
		_ = c.Error(err)
		c.JSON(calendar.StatusCode(err), resp)
	case resp.Success:
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusBadRequest, resp)
	}
}

// ParseHandler resolves a request without acting on it
func (router *RouterImpl) ParseHandler(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		router.logger.Error("failed to decode parse request", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to decode request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, router.resolver.Resolve(c.Request.Context(), req.Prompt))
}

func (router *RouterImpl) eventTime(t EventTimeRequest) (calendar.EventTime, error) {
	switch {
	case t.DateTime != "":
		if _, err := calendar.ParseTime(t.DateTime, router.location); err != nil {
			return calendar.EventTime{}, errors.New("dateTime must be an RFC3339 or YYYY-MM-DDTHH:MM:SS timestamp")
		}
		tz := t.TimeZone
		if tz == "" {
			tz = router.location.String()
		}
		return calendar.EventTime{DateTime: t.DateTime, TimeZone: tz}, nil
	case t.Date != "":
		if _, err := time.Parse(calendar.DateLayout, t.Date); err != nil {
			return calendar.EventTime{}, errors.New("date must be YYYY-MM-DD")
		}
		return calendar.EventTime{Date: t.Date, TimeZone: t.TimeZone}, nil
	}
	return calendar.EventTime{}, errors.New("either dateTime or date is required")
}

func (router *RouterImpl) calendarError(c *gin.Context, msg string, err error) {
	status := calendar.StatusCode(err)
	router.logger.Error(msg, err, "status", status)
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: msg + ": " + err.Error()})
}
