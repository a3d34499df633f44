// Package calendar mirrors tournament dates to a Google Calendar. Sync is
// best-effort everywhere it is called: a calendar failure is logged and never
// blocks tournament CRUD.
package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"camops/models"
)

type Service struct {
	events     *gcal.EventsService
	calendarID string
}

// New builds the client from a service-account credentials file. An empty
// credentials path means the integration is disabled and New returns nil.
func New(ctx context.Context, credentialsFile, calendarID string) (*Service, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope))
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create client: %w", err)
	}
	return &Service{events: svc.Events, calendarID: calendarID}, nil
}

// event builds the all-day event for a tournament. Google treats the end
// date as exclusive, so it is the day after the tournament ends.
func event(t *models.Tournament) *gcal.Event {
	end := t.EndDate
	if end == "" {
		end = t.Date
	}
	if d, err := time.Parse(models.DateLayout, end); err == nil {
		end = d.AddDate(0, 0, 1).Format(models.DateLayout)
	}
	return &gcal.Event{
		Summary:     t.Name,
		Location:    fmt.Sprintf("%s, %s", t.Location, t.State),
		Description: fmt.Sprintf("Torneo de golf · %d hoyos · técnico: %s", t.Holes, t.Worker),
		Start:       &gcal.EventDateTime{Date: t.Date},
		End:         &gcal.EventDateTime{Date: end},
	}
}

func (s *Service) CreateEvent(ctx context.Context, t *models.Tournament) (string, error) {
	ev, err := s.events.Insert(s.calendarID, event(t)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: create event for %s: %w", t.ID, err)
	}
	return ev.Id, nil
}

func (s *Service) UpdateEvent(ctx context.Context, t *models.Tournament, eventID string) error {
	_, err := s.events.Update(s.calendarID, eventID, event(t)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendar: update event %s: %w", eventID, err)
	}
	return nil
}

func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	err := s.events.Delete(s.calendarID, eventID).Context(ctx).Do()
	if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 404 {
		return nil // already gone
	}
	if err != nil {
		return fmt.Errorf("calendar: delete event %s: %w", eventID, err)
	}
	return nil
}

// FindEvent looks an event up by tournament name. Returns nil when no event
// matches.
func (s *Service) FindEvent(ctx context.Context, name string) (*gcal.Event, error) {
	list, err := s.events.List(s.calendarID).Q(name).SingleEvents(true).MaxResults(10).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: find event %q: %w", name, err)
	}
	for _, ev := range list.Items {
		if ev.Summary == name {
			return ev, nil
		}
	}
	return nil, nil
}
