package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upAddNameToPeople, downAddNameToPeople)
}

func upAddNameToPeople(tx *sql.Tx) error {
	return exec(tx, `ALTER TABLE people ADD COLUMN name VARCHAR(255)`)
}

func downAddNameToPeople(tx *sql.Tx) error {
	return exec(tx, `ALTER TABLE people DROP COLUMN name`)
}
