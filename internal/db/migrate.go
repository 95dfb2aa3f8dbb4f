package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	// registers the Go migrations with goose
	_ "github.com/MosinFAM/arfixture/internal/migrations"

	"github.com/pressly/goose"
	"github.com/rs/zerolog/log"
)

// ErrUnknownCommand is returned for a migrate command goose does not run here.
var ErrUnknownCommand = errors.New("unknown migrate command")

// Commands lists what Migrate accepts.
var Commands = []string{"up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version"}

// Migrate runs a goose command against db. dir is scanned for extra
// migration files next to the registered Go ones.
func Migrate(db *sql.DB, dir, command string, args ...string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	log.Info().Str("command", command).Str("dir", dir).Msg("Running migrations")

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "up-by-one":
		return goose.UpByOne(db, dir)
	case "up-to", "down-to":
		version, err := versionArg(command, args)
		if err != nil {
			return err
		}
		if command == "up-to" {
			return goose.UpTo(db, dir, version)
		}
		return goose.DownTo(db, dir, version)
	case "down":
		return goose.Down(db, dir)
	case "redo":
		return goose.Redo(db, dir)
	case "reset":
		return goose.Reset(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		return goose.Version(db, dir)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
}

func versionArg(command string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s needs a version", command)
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad version %q: %w", command, args[0], err)
	}
	return version, nil
}
