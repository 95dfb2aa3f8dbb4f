package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(upCreatePosts, downCreatePosts)
}

func upCreatePosts(tx *sql.Tx) error {
	return exec(tx,
		`CREATE TABLE posts (
			id         BIGSERIAL PRIMARY KEY,
			title      VARCHAR(255),
			body       TEXT,
			published  BOOLEAN,
			poster_id  BIGINT REFERENCES people (id),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX index_posts_on_poster_id ON posts (poster_id)`,
	)
}

func downCreatePosts(tx *sql.Tx) error {
	return exec(tx, `DROP TABLE posts`)
}
