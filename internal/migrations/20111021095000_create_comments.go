package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upCreateComments, downCreateComments)
}

func upCreateComments(tx *sql.Tx) error {
	return exec(tx,
		`CREATE TABLE comments (
			id         BIGSERIAL PRIMARY KEY,
			text       TEXT,
			post_id    BIGINT REFERENCES posts (id),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX index_comments_on_post_id ON comments (post_id)`,
	)
}

func downCreateComments(tx *sql.Tx) error {
	return exec(tx, `DROP TABLE comments`)
}
