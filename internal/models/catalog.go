package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event types as stored in the events table.
const (
	EventTypeLocation  = "location"
	EventTypeSpotlight = "spotlight"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"eventName"`
	Description   string    `bun:"description" json:"description,omitempty"`
	EventType     string    `bun:"event_type,notnull" json:"eventType"`
	EventLocation string    `bun:"event_location,notnull" json:"eventLocation"`
	VenueName     string    `bun:"venue_name" json:"venueName,omitempty"`
	VenueAddress  string    `bun:"venue_address" json:"venueAddress,omitempty"`
	OrganizerID   string    `bun:"organizer_id" json:"organizerId,omitempty"`
	PosterURL     string    `bun:"poster_url" json:"posterUrl,omitempty"`
	StartDate     time.Time `bun:"start_date,notnull" json:"startDate"`
	EndDate       time.Time `bun:"end_date,notnull" json:"endDate"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type Flyer struct {
	bun.BaseModel `bun:"table:flyers"`

	ID       string `bun:"id,pk" json:"id"`
	EventID  string `bun:"event_id" json:"eventId,omitempty"`
	ImageURL string `bun:"image_url,notnull" json:"imageUrl"`
	LinkURL  string `bun:"link_url" json:"linkUrl,omitempty"`
	Position int    `bun:"position" json:"position"`
}

type Organizer struct {
	bun.BaseModel `bun:"table:organizers"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description,omitempty"`
	Email       string    `bun:"email" json:"email,omitempty"`
	Website     string    `bun:"website" json:"website,omitempty"`
	Location    string    `bun:"location" json:"location,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
