// Package catalog serves the event discovery endpoints backing the
// storefront: events by city, spotlight picks, flyers, organizers.
package catalog

import (
	"context"
	"database/sql"
	"errors"

	"tixmojo-server/internal/catalog/db"
	"tixmojo-server/internal/models"
)

// DefaultLocation is used when a request doesn't name a city.
const DefaultLocation = "Sydney"

var ErrNotFound = errors.New("not found")

type Service struct {
	db *db.DB
}

func NewService(database *db.DB) *Service {
	return &Service{db: database}
}

func (s *Service) EventsByLocation(ctx context.Context, location string) ([]models.Event, error) {
	if location == "" {
		location = DefaultLocation
	}
	events, err := s.db.GetEventsByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *Service) SpotlightEvents(ctx context.Context, location string) ([]models.Event, error) {
	events, err := s.db.GetSpotlightEvents(ctx, location)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *Service) Event(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.db.GetEventByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return event, err
}

func (s *Service) Flyers(ctx context.Context) ([]models.Flyer, error) {
	flyers, err := s.db.GetFlyers(ctx)
	if err != nil {
		return nil, err
	}
	if flyers == nil {
		flyers = []models.Flyer{}
	}
	return flyers, nil
}

func (s *Service) Organizer(ctx context.Context, id string) (*models.Organizer, error) {
	organizer, err := s.db.GetOrganizerByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return organizer, err
}
