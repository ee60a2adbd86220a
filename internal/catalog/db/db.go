package db

import (
	"context"

	"github.com/uptrace/bun"

	"tixmojo-server/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- EVENTS ----------------

// GetEventsByLocation → location events for a city, soonest first
func (d *DB) GetEventsByLocation(ctx context.Context, location string) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("lower(event_location) = lower(?)", location).
		Where("event_type = ?", models.EventTypeLocation).
		Order("start_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetSpotlightEvents → featured events, optionally filtered by city
func (d *DB) GetSpotlightEvents(ctx context.Context, location string) ([]models.Event, error) {
	var events []models.Event
	q := d.Bun.NewSelect().
		Model(&events).
		Where("event_type = ?", models.EventTypeSpotlight).
		Order("start_date ASC")
	if location != "" {
		q = q.Where("lower(event_location) = lower(?)", location)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEventByID → fetch one event
func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ---------------- FLYERS ----------------

// GetFlyers → carousel flyers in display order
func (d *DB) GetFlyers(ctx context.Context) ([]models.Flyer, error) {
	var flyers []models.Flyer
	err := d.Bun.NewSelect().
		Model(&flyers).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return flyers, nil
}

// ---------------- ORGANIZERS ----------------

// GetOrganizerByID → fetch one organizer
func (d *DB) GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error) {
	var organizer models.Organizer
	err := d.Bun.NewSelect().
		Model(&organizer).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &organizer, nil
}
