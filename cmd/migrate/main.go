package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"regcheck/internal/platform/database"
	"regcheck/internal/platform/logger"
)

func main() {
	var (
		up      = flag.Bool("up", false, "apply all pending migrations")
		down    = flag.Bool("down", false, "roll back all migrations")
		steps   = flag.Int("steps", 0, "apply n migrations, negative rolls back")
		version = flag.Bool("version", false, "print the current schema version")
		force   = flag.Int("force", -1, "force the schema version without running migrations")
	)
	flag.Parse()

	log := logger.New(os.Getenv("LOG_LEVEL"))
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(2)
	}

	m, err := database.NewMigrator(dsn)
	if err != nil {
		log.Error("open migrator", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch {
	case *force >= 0:
		err = m.Force(*force)
	case *up:
		err = m.Up()
	case *down:
		err = m.Down()
	case *steps != 0:
		err = m.Steps(*steps)
	case *version:
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info("no migrations applied")
			return
		}
		if verr != nil {
			err = verr
			break
		}
		log.Info("schema version", "version", v, "dirty", dirty)
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("schema already up to date")
		return
	}
	if err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migration complete")
}
