package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

// Drops the split name columns. Down brings them back empty; the rows
// themselves are never touched.
func init() {
	goose.AddMigration(upRemoveFirstFromPeople, downRemoveFirstFromPeople)
}

func upRemoveFirstFromPeople(tx *sql.Tx) error {
	return exec(tx,
		`ALTER TABLE people DROP COLUMN first`,
		`ALTER TABLE people DROP COLUMN last`,
	)
}

func downRemoveFirstFromPeople(tx *sql.Tx) error {
	return exec(tx,
		`ALTER TABLE people ADD COLUMN first VARCHAR(255)`,
		`ALTER TABLE people ADD COLUMN last VARCHAR(255)`,
	)
}
