package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	l "github.com/inference-gateway/calendar-assistant/logger"
)

// MemoryService is an in-process calendar used for demos and tests
type MemoryService struct {
	mu       sync.RWMutex
	events   map[string]*Event
	deleted  map[string]struct{}
	location *time.Location
	now      func() time.Time
	logger   l.Logger
}

// NewMemoryService returns an empty in-memory calendar
func NewMemoryService(loc *time.Location, now func() time.Time, logger l.Logger) *MemoryService {
	if now == nil {
		now = time.Now
	}
	return &MemoryService{
		events:   make(map[string]*Event),
		deleted:  make(map[string]struct{}),
		location: loc,
		now:      now,
		logger:   logger,
	}
}

// Seed stores events as-is, generating ids where missing
func (s *MemoryService) Seed(events ...*Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		stored := copyEvent(e)
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		s.events[stored.ID] = stored
	}
}

func (s *MemoryService) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	return []CalendarInfo{{
		ID:       "primary",
		Summary:  "Demo calendar",
		TimeZone: s.location.String(),
		Primary:  true,
	}}, nil
}

func (s *MemoryService) ListEvents(ctx context.Context, q Query) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		event *Event
		start time.Time
	}
	entries := make([]entry, 0, len(s.events))
	for _, e := range s.events {
		start, ok := e.StartTime(s.location)
		if !ok {
			continue
		}
		end, ok := e.EndTime(s.location)
		if !ok {
			end = start
		}
		if !q.From.IsZero() && !end.After(q.From) {
			continue
		}
		if !q.To.IsZero() && !start.Before(q.To) {
			continue
		}
		entries = append(entries, entry{event: copyEvent(e), start: start})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].start.Equal(entries[j].start) {
			return entries[i].event.ID < entries[j].event.ID
		}
		return entries[i].start.Before(entries[j].start)
	})

	result := make([]*Event, 0, len(entries))
	for _, en := range entries {
		if q.MaxResults > 0 && int64(len(result)) >= q.MaxResults {
			break
		}
		result = append(result, en.event)
	}
	return result, nil
}

func (s *MemoryService) GetEvent(ctx context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return copyEvent(e), nil
}

func (s *MemoryService) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	stored := copyEvent(event)
	stored.ID = uuid.NewString()
	stored.Status = "confirmed"
	stamp := s.now().UTC().Format(time.RFC3339)
	stored.Created = stamp
	stored.Updated = stamp

	s.mu.Lock()
	s.events[stored.ID] = stored
	s.mu.Unlock()

	s.logger.Debug("demo event created", "event_id", stored.ID, "summary", stored.Summary)
	return copyEvent(stored), nil
}

func (s *MemoryService) DeleteEvent(ctx context.Context, id string, notify NotifyPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, gone := s.deleted[id]; gone {
		return ErrAlreadyDeleted
	}
	if _, ok := s.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.events, id)
	s.deleted[id] = struct{}{}
	s.logger.Debug("demo event deleted", "event_id", id, "notify", string(notify))
	return nil
}

func copyEvent(e *Event) *Event {
	c := *e
	if e.Attendees != nil {
		c.Attendees = append([]Attendee(nil), e.Attendees...)
	}
	return &c
}
