package storage

import (
	"context"
	"errors"

	"github.com/MosinFAM/arfixture/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrPosterNotFound is returned when poster_id names a missing person
	ErrPosterNotFound = errors.New("poster must exist")
	// ErrPostNotFound is returned when post_id names a missing post
	ErrPostNotFound = errors.New("post must exist")
	// ErrReferenced is returned when deleting a row other rows still point at
	ErrReferenced = errors.New("record is still referenced")
)

// ListOptions pages a collection; Limit 0 means no limit
type ListOptions struct {
	Limit  int
	Offset int
}

// PostFilter narrows ListPosts to one poster
type PostFilter struct {
	ListOptions
	PosterID *int64
}

// CommentFilter narrows ListComments to one post
type CommentFilter struct {
	ListOptions
	PostID *int64
}

// Storage - interface for every store (in-memory and PostgreSQL)
type Storage interface {
	ListPeople(ctx context.Context, opts ListOptions) ([]models.Person, error)
	GetPerson(ctx context.Context, id int64) (*models.Person, error)
	CreatePerson(ctx context.Context, attrs models.PersonAttributes) (*models.Person, error)
	UpdatePerson(ctx context.Context, id int64, attrs models.PersonAttributes) (*models.Person, error)
	DeletePerson(ctx context.Context, id int64) error

	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, attrs models.PostAttributes) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, attrs models.PostAttributes) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error

	ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	CreateComment(ctx context.Context, attrs models.CommentAttributes) (*models.Comment, error)
	UpdateComment(ctx context.Context, id int64, attrs models.CommentAttributes) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error

	SubscribeToComments(ctx context.Context, postID int64) (<-chan *models.Comment, error)
}

// page applies offset and limit to an already ordered slice.
func page[T any](items []T, opts ListOptions) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return []T{}
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
