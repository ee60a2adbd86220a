package db

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"tixmojo-server/internal/models"
)

// Migrate recreates the catalog tables and seeds them with starter data.
// Intended for development databases; production schemas are managed
// externally.
func Migrate(db *bun.DB) {
	ctx := context.Background()

	tables := []interface{}{
		(*models.Event)(nil),
		(*models.Flyer)(nil),
		(*models.Organizer)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			log.Fatalf("drop table failed: %v", err)
		}
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			log.Fatalf("create table failed: %v", err)
		}
	}

	log.Println("catalog tables created")

	organizer := &models.Organizer{
		ID:        uuid.NewString(),
		Name:      "Harbour Lights Presents",
		Email:     "events@harbourlights.example",
		Location:  "Sydney",
		CreatedAt: time.Now(),
	}
	if _, err := db.NewInsert().Model(organizer).Exec(ctx); err != nil {
		log.Fatalf("seed organizer failed: %v", err)
	}

	events := []models.Event{
		{
			ID:            uuid.NewString(),
			Name:          "Sydney Summer Sessions",
			EventType:     models.EventTypeLocation,
			EventLocation: "Sydney",
			VenueName:     "The Domain",
			OrganizerID:   organizer.ID,
			StartDate:     time.Now().AddDate(0, 1, 0),
			EndDate:       time.Now().AddDate(0, 1, 0).Add(6 * time.Hour),
			CreatedAt:     time.Now(),
		},
		{
			ID:            uuid.NewString(),
			Name:          "Laneway Late Nights",
			EventType:     models.EventTypeSpotlight,
			EventLocation: "Sydney",
			VenueName:     "Oxford Art Factory",
			OrganizerID:   organizer.ID,
			StartDate:     time.Now().AddDate(0, 0, 14),
			EndDate:       time.Now().AddDate(0, 0, 14).Add(5 * time.Hour),
			CreatedAt:     time.Now(),
		},
	}
	if _, err := db.NewInsert().Model(&events).Exec(ctx); err != nil {
		log.Fatalf("seed events failed: %v", err)
	}

	flyer := &models.Flyer{
		ID:       uuid.NewString(),
		EventID:  events[0].ID,
		ImageURL: "https://cdn.tixmojo.example/flyers/summer-sessions.png",
		Position: 1,
	}
	if _, err := db.NewInsert().Model(flyer).Exec(ctx); err != nil {
		log.Fatalf("seed flyer failed: %v", err)
	}

	log.Println("catalog seeded")
}
