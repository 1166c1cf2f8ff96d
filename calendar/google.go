package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	config "github.com/inference-gateway/calendar-assistant/config"
	l "github.com/inference-gateway/calendar-assistant/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleService implements Service on top of the Google Calendar API
type GoogleService struct {
	service    *gcal.Service
	calendarID string
	logger     l.Logger
}

// NewGoogleService builds an authenticated Google Calendar client. A stored
// user token is preferred, a service account credentials file is the
// alternative. base may be nil.
func NewGoogleService(ctx context.Context, cfg *config.CalendarConfig, logger l.Logger, base http.RoundTripper) (*GoogleService, error) {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
	}

	credentials, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: credentials file %s not found", ErrCalendarUnavailable, cfg.CredentialsPath)
		}
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	var client *http.Client
	if isServiceAccount(credentials) {
		jwtConfig, err := google.JWTConfigFromJSON(credentials, gcal.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
		}
		client = jwtConfig.Client(ctx)
		logger.Info("using service account credentials", "email", jwtConfig.Email)
	} else {
		oauthConfig, err := oauthConfigFromJSON(credentials)
		if err != nil {
			return nil, err
		}
		token, err := TokenFromFile(cfg.TokenPath)
		if err != nil {
			return nil, fmt.Errorf("%w: could not load token from %s, run the auth command first: %v", ErrCalendarUnavailable, cfg.TokenPath, err)
		}
		client = oauthConfig.Client(ctx, token)
		logger.Info("using stored user token", "path", cfg.TokenPath)
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &GoogleService{
		service:    svc,
		calendarID: cfg.ID,
		logger:     logger,
	}, nil
}

func (s *GoogleService) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := s.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		s.logger.Error("failed to list calendars", err)
		return nil, translateError(err)
	}

	calendars := make([]CalendarInfo, 0, len(list.Items))
	for _, item := range list.Items {
		calendars = append(calendars, CalendarInfo{
			ID:       item.Id,
			Summary:  item.Summary,
			TimeZone: item.TimeZone,
			Primary:  item.Primary,
		})
	}
	return calendars, nil
}

func (s *GoogleService) ListEvents(ctx context.Context, q Query) ([]*Event, error) {
	call := s.service.Events.List(s.calendarID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime")
	if !q.From.IsZero() {
		call = call.TimeMin(q.From.Format("2006-01-02T15:04:05Z07:00"))
	}
	if !q.To.IsZero() {
		call = call.TimeMax(q.To.Format("2006-01-02T15:04:05Z07:00"))
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}

	s.logger.Debug("listing events", "calendar_id", s.calendarID, "from", q.From, "to", q.To)
	events, err := call.Do()
	if err != nil {
		s.logger.Error("failed to list events", err, "calendar_id", s.calendarID)
		return nil, translateError(err)
	}

	result := make([]*Event, 0, len(events.Items))
	for _, item := range events.Items {
		if item == nil {
			continue
		}
		result = append(result, fromGoogleEvent(item))
	}
	s.logger.Debug("listed events", "count", len(result))
	return result, nil
}

func (s *GoogleService) GetEvent(ctx context.Context, id string) (*Event, error) {
	item, err := s.service.Events.Get(s.calendarID, id).Context(ctx).Do()
	if err != nil {
		return nil, translateError(err)
	}
	return fromGoogleEvent(item), nil
}

func (s *GoogleService) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	created, err := s.service.Events.Insert(s.calendarID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		s.logger.Error("failed to create event", err, "summary", event.Summary)
		return nil, translateError(err)
	}
	s.logger.Info("event created", "event_id", created.Id, "summary", created.Summary)
	return fromGoogleEvent(created), nil
}

func (s *GoogleService) DeleteEvent(ctx context.Context, id string, notify NotifyPolicy) error {
	err := s.service.Events.Delete(s.calendarID, id).
		SendUpdates(string(notify)).
		Context(ctx).
		Do()
	if err != nil {
		err = translateError(err)
		if errors.Is(err, ErrAlreadyDeleted) {
			s.logger.Warn("event was already deleted", "event_id", id)
		} else {
			s.logger.Error("failed to delete event", err, "event_id", id)
		}
		return err
	}
	s.logger.Info("event deleted", "event_id", id)
	return nil
}

func fromGoogleEvent(item *gcal.Event) *Event {
	event := &Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Status:      item.Status,
		HTMLLink:    item.HtmlLink,
		Created:     item.Created,
		Updated:     item.Updated,
	}
	if item.Start != nil {
		event.Start = EventTime{DateTime: item.Start.DateTime, Date: item.Start.Date, TimeZone: item.Start.TimeZone}
	}
	if item.End != nil {
		event.End = EventTime{DateTime: item.End.DateTime, Date: item.End.Date, TimeZone: item.End.TimeZone}
	}
	for _, a := range item.Attendees {
		if a == nil {
			continue
		}
		event.Attendees = append(event.Attendees, Attendee{Email: a.Email, DisplayName: a.DisplayName})
	}
	return event
}

func toGoogleEvent(event *Event) *gcal.Event {
	item := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       &gcal.EventDateTime{DateTime: event.Start.DateTime, Date: event.Start.Date, TimeZone: event.Start.TimeZone},
		End:         &gcal.EventDateTime{DateTime: event.End.DateTime, Date: event.End.Date, TimeZone: event.End.TimeZone},
	}
	for _, a := range event.Attendees {
		item.Attendees = append(item.Attendees, &gcal.EventAttendee{Email: a.Email, DisplayName: a.DisplayName})
	}
	return item
}

func isServiceAccount(credentials []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(credentials, &probe); err != nil {
		return false
	}
	return probe.Type == "service_account"
}
