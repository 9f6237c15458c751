package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/intramural-stats/config"
	"github.com/Dosada05/intramural-stats/db"
)

func main() {
	command := flag.String("command", "up", "migration command: up, down or version")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(*command, logger); err != nil {
		logger.Error("migration failed", slog.String("command", *command), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(command string, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL, 10*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch command {
	case "up":
		if err := db.Migrate(conn); err != nil {
			return err
		}
	case "down":
		if err := db.MigrateDown(conn); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	version, dirty, err := db.MigrationVersion(conn)
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	logger.Info("schema version", slog.String("command", command), slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}
