package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upCreatePeople, downCreatePeople)
}

func upCreatePeople(tx *sql.Tx) error {
	return exec(tx, `CREATE TABLE people (
		id         BIGSERIAL PRIMARY KEY,
		first      VARCHAR(255),
		last       VARCHAR(255),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
}

func downCreatePeople(tx *sql.Tx) error {
	return exec(tx, `DROP TABLE people`)
}
