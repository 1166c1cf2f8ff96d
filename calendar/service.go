package calendar

import (
	"context"
)

// Service is the calendar backend the assistant operates on
//
//go:generate mockgen -source=service.go -destination=../tests/mocks/calendar.go -package=mocks
type Service interface {
	ListCalendars(ctx context.Context) ([]CalendarInfo, error)
	ListEvents(ctx context.Context, q Query) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id string, notify NotifyPolicy) error
}
