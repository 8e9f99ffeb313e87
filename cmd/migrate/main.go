package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	pg "reptile-husbandry/internal/adapters/storage/postgres"
	"reptile-husbandry/internal/platform/logger"
)

// CLI de migraciones sobre el set embebido en el binario.
func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	log := logger.NewFromEnv()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fatal(log, "DB_DSN environment variable is required")
	}

	db, err := pg.Open(dsn)
	if err != nil {
		fatal(log, "db open failed: "+err.Error())
	}
	defer db.Close()

	m, err := pg.NewMigrator(db)
	if err != nil {
		fatal(log, "migrator init failed: "+err.Error())
	}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal(log, "up failed: "+err.Error())
		}
		log.Info("migrations: up completed", nil)

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				fatal(log, fmt.Sprintf("down: invalid steps argument %q", args[1]))
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal(log, "down failed: "+err.Error())
		}
		log.Info("migrations: down completed", map[string]any{"steps": steps})

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			fatal(log, "version failed: "+err.Error())
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(args) < 2 {
			fatal(log, "force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fatal(log, fmt.Sprintf("force: invalid version %q", args[1]))
		}
		if err := m.Force(v); err != nil {
			fatal(log, "force failed: "+err.Error())
		}
		log.Info("migrations: forced", map[string]any{"version": v})

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Rollback N migrations (default: 1)
  version      Print current migration version
  force <V>    Force set migration version (bypass dirty state)

Environment:
  DB_DSN       Required. Postgres DSN.`)
}

func fatal(log logger.Logger, msg string) {
	log.Error(msg, nil)
	os.Exit(1)
}
