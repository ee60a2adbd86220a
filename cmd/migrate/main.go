// Command migrate recreates and seeds the catalog tables against the
// configured Postgres database.
package main

import (
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	catalog_db "tixmojo-server/internal/catalog/db"
	"tixmojo-server/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Database.DSN == "" {
		log.Fatal("POSTGRES_DSN not set")
	}

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to open PostgreSQL: %v", err)
	}
	defer sqldb.Close()
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}

	catalog_db.Migrate(bun.NewDB(sqldb, pgdialect.New()))
}
