// Command migrate applies or rolls back the schema migrations under
// migrations/ against the database named by DATABASE_URL.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	dir := flag.String("dir", "migrations", "path to the migration files")
	flag.Parse()

	direction := flag.Arg(0)
	if direction != "up" && direction != "down" {
		log.Fatal("usage: migrate [-dir migrations] up|down")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL env var is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("create postgres driver: %v", err)
	}

	absPath, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatalf("resolve migrations path: %v", err)
	}
	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(absPath))

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		log.Fatalf("create migrate instance: %v", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("run migrations: %v", err)
	}
	log.Printf("migrations %s complete", direction)
}
