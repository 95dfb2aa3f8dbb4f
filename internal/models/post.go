package models

import "time"

// Post is a post written by a person (its poster)
type Post struct {
	ID        int64     `json:"id"`
	Title     *string   `json:"title"`
	Body      *string   `json:"body"`
	Published *bool     `json:"published"`
	PosterID  *int64    `json:"poster_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostAttributes lists the post fields a request body may assign
type PostAttributes struct {
	Title     *string    `json:"title" validate:"omitempty,max=255"`
	Body      *string    `json:"body"`
	Published *bool      `json:"published"`
	PosterID  *int64     `json:"poster_id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
