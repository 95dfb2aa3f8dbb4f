package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MosinFAM/arfixture/internal/models"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	commentsChannel = "comments_channel"

	foreignKeyViolation = "23503"

	personColumns  = "id, name, created_at, updated_at"
	postColumns    = "id, title, body, published, poster_id, created_at, updated_at"
	commentColumns = "id, text, post_id, created_at, updated_at"
)

// PostgresStorage - PostgreSQL store
type PostgresStorage struct {
	DB         *sql.DB
	DataSource string
}

// NewPostgresStorage creates a PostgreSQL store
func NewPostgresStorage(db *sql.DB, dataSource string) *PostgresStorage {
	return &PostgresStorage{DB: db, DataSource: dataSource}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var p models.Person
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Published, &p.PosterID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.Text, &c.PostID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// limitArg maps the unlimited page to LIMIT NULL.
func limitArg(opts ListOptions) any {
	if opts.Limit <= 0 {
		return nil
	}
	return opts.Limit
}

// translate maps driver errors onto the storage sentinels.
func translate(err error, missingParent error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		if missingParent != nil {
			return missingParent
		}
		return ErrReferenced
	}
	return err
}

// ListPeople returns people ordered by id
func (s *PostgresStorage) ListPeople(ctx context.Context, opts ListOptions) ([]models.Person, error) {
	log.Debug().Msg("Fetching people from database")
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+personColumns+" FROM people ORDER BY id LIMIT $1 OFFSET $2",
		limitArg(opts), opts.Offset)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching people")
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			log.Error().Err(err).Msg("Error scanning person row")
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

// GetPerson returns a person by id
func (s *PostgresStorage) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	log.Debug().Int64("id", id).Msg("Fetching person")
	p, err := scanPerson(s.DB.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE id=$1", id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return p, nil
}

// CreatePerson inserts a new person
func (s *PostgresStorage) CreatePerson(ctx context.Context, attrs models.PersonAttributes) (*models.Person, error) {
	person := models.NewPerson(attrs)
	err := s.DB.QueryRowContext(ctx,
		"INSERT INTO people (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id",
		person.Name, person.CreatedAt, person.UpdatedAt).Scan(&person.ID)
	if err != nil {
		log.Error().Err(err).Msg("DB insert error")
		return nil, fmt.Errorf("insert person: %w", err)
	}
	log.Debug().Int64("id", person.ID).Msg("Person added")
	return &person, nil
}

// UpdatePerson assigns attributes to an existing person
func (s *PostgresStorage) UpdatePerson(ctx context.Context, id int64, attrs models.PersonAttributes) (*models.Person, error) {
	var person *models.Person
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		person, err = scanPerson(tx.QueryRowContext(ctx,
			"SELECT "+personColumns+" FROM people WHERE id=$1 FOR UPDATE", id))
		if err != nil {
			return err
		}
		person.Apply(attrs)
		_, err = tx.ExecContext(ctx,
			"UPDATE people SET name=$1, created_at=$2, updated_at=$3 WHERE id=$4",
			person.Name, person.CreatedAt, person.UpdatedAt, id)
		return err
	})
	if err != nil {
		return nil, translate(err, nil)
	}
	log.Debug().Int64("id", id).Msg("Person updated")
	return person, nil
}

// DeletePerson removes a person who is nobody's poster
func (s *PostgresStorage) DeletePerson(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "people", id)
}

// ListPosts returns posts ordered by id, optionally for one poster
func (s *PostgresStorage) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	log.Debug().Msg("Fetching posts from database")
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE ($1::bigint IS NULL OR poster_id = $1) ORDER BY id LIMIT $2 OFFSET $3",
		filter.PosterID, limitArg(filter.ListOptions), filter.Offset)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching posts")
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			log.Error().Err(err).Msg("Error scanning post row")
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// GetPost returns a post by id
func (s *PostgresStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	log.Debug().Int64("id", id).Msg("Fetching post")
	p, err := scanPost(s.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=$1", id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return p, nil
}

// CreatePost inserts a new post
func (s *PostgresStorage) CreatePost(ctx context.Context, attrs models.PostAttributes) (*models.Post, error) {
	post := models.NewPost(attrs)
	err := s.DB.QueryRowContext(ctx,
		"INSERT INTO posts (title, body, published, poster_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		post.Title, post.Body, post.Published, post.PosterID, post.CreatedAt, post.UpdatedAt).Scan(&post.ID)
	if err != nil {
		log.Error().Err(err).Msg("DB insert error")
		return nil, translate(err, ErrPosterNotFound)
	}
	log.Debug().Int64("id", post.ID).Msg("Post added")
	return &post, nil
}

// UpdatePost assigns attributes to an existing post
func (s *PostgresStorage) UpdatePost(ctx context.Context, id int64, attrs models.PostAttributes) (*models.Post, error) {
	var post *models.Post
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		post, err = scanPost(tx.QueryRowContext(ctx,
			"SELECT "+postColumns+" FROM posts WHERE id=$1 FOR UPDATE", id))
		if err != nil {
			return err
		}
		post.Apply(attrs)
		_, err = tx.ExecContext(ctx,
			"UPDATE posts SET title=$1, body=$2, published=$3, poster_id=$4, created_at=$5, updated_at=$6 WHERE id=$7",
			post.Title, post.Body, post.Published, post.PosterID, post.CreatedAt, post.UpdatedAt, id)
		return err
	})
	if err != nil {
		return nil, translate(err, ErrPosterNotFound)
	}
	log.Debug().Int64("id", id).Msg("Post updated")
	return post, nil
}

// DeletePost removes a post without comments
func (s *PostgresStorage) DeletePost(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "posts", id)
}

// ListComments returns comments ordered by id, optionally for one post
func (s *PostgresStorage) ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	log.Debug().Msg("Fetching comments from database")
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE ($1::bigint IS NULL OR post_id = $1) ORDER BY id LIMIT $2 OFFSET $3",
		filter.PostID, limitArg(filter.ListOptions), filter.Offset)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching comments")
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			log.Error().Err(err).Msg("Error scanning comment row")
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// GetComment returns a comment by id
func (s *PostgresStorage) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	log.Debug().Int64("id", id).Msg("Fetching comment")
	c, err := scanComment(s.DB.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id=$1", id))
	if err != nil {
		return nil, translate(err, nil)
	}
	return c, nil
}

// CreateComment inserts a comment and notifies listeners on commit
func (s *PostgresStorage) CreateComment(ctx context.Context, attrs models.CommentAttributes) (*models.Comment, error) {
	comment := models.NewComment(attrs)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"INSERT INTO comments (text, post_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id",
			comment.Text, comment.PostID, comment.CreatedAt, comment.UpdatedAt).Scan(&comment.ID)
		if err != nil {
			return err
		}
		if comment.PostID == nil {
			return nil
		}
		// NOTIFY payloads must stay under 8000 bytes, so only the keys travel.
		payload, err := json.Marshal(commentNotification{ID: comment.ID, PostID: *comment.PostID})
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", commentsChannel, string(payload))
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("DB insert error")
		return nil, translate(err, ErrPostNotFound)
	}
	log.Debug().Int64("id", comment.ID).Msg("Comment added")
	return &comment, nil
}

// UpdateComment assigns attributes to an existing comment
func (s *PostgresStorage) UpdateComment(ctx context.Context, id int64, attrs models.CommentAttributes) (*models.Comment, error) {
	var comment *models.Comment
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		comment, err = scanComment(tx.QueryRowContext(ctx,
			"SELECT "+commentColumns+" FROM comments WHERE id=$1 FOR UPDATE", id))
		if err != nil {
			return err
		}
		comment.Apply(attrs)
		_, err = tx.ExecContext(ctx,
			"UPDATE comments SET text=$1, post_id=$2, created_at=$3, updated_at=$4 WHERE id=$5",
			comment.Text, comment.PostID, comment.CreatedAt, comment.UpdatedAt, id)
		return err
	})
	if err != nil {
		return nil, translate(err, ErrPostNotFound)
	}
	log.Debug().Int64("id", id).Msg("Comment updated")
	return comment, nil
}

// DeleteComment removes a comment
func (s *PostgresStorage) DeleteComment(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "comments", id)
}

// deleteRow only ever receives one of the fixed table names above.
func (s *PostgresStorage) deleteRow(ctx context.Context, table string, id int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM "+table+" WHERE id=$1", id)
	if err != nil {
		log.Error().Err(err).Str("table", table).Int64("id", id).Msg("DB delete error")
		return translate(err, nil)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	log.Debug().Str("table", table).Int64("id", id).Msg("Row deleted")
	return nil
}

func (s *PostgresStorage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SubscribeToComments streams comments created on a post until ctx ends
func (s *PostgresStorage) SubscribeToComments(ctx context.Context, postID int64) (<-chan *models.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	log.Debug().Int64("post_id", postID).Msg("Subscribing to comments")

	listener := pq.NewListener(s.DataSource, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error().Err(err).Msg("Postgres listener error")
		}
	})
	if err := listener.Listen(commentsChannel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", commentsChannel, err)
	}

	ch := make(chan *models.Comment, subscriberBuffer)
	go func() {
		defer close(ch)
		defer listener.Close()

		ticker := time.NewTicker(90 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := listener.Ping(); err != nil {
					log.Error().Err(err).Msg("Postgres listener ping error")
					return
				}
			case n := <-listener.Notify:
				// nil follows a reconnect
				if n == nil {
					continue
				}
				id, ok := decodeNotification(n.Extra, postID)
				if !ok {
					continue
				}
				comment, err := s.GetComment(ctx, id)
				if err != nil {
					log.Error().Err(err).Int64("id", id).Msg("Error loading notified comment")
					continue
				}
				select {
				case ch <- comment:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

type commentNotification struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
}

// decodeNotification parses a comments_channel payload and returns the
// comment id when it belongs to postID.
func decodeNotification(payload string, postID int64) (int64, bool) {
	var n commentNotification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		log.Error().Err(err).Msg("Error parsing notification payload")
		return 0, false
	}
	if n.PostID != postID {
		return 0, false
	}
	return n.ID, true
}
