package models

import "time"

// Comment is a comment attached to a post
type Comment struct {
	ID        int64     `json:"id"`
	Text      *string   `json:"text"`
	PostID    *int64    `json:"post_id"` // nil when the comment is detached
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentAttributes lists the comment fields a request body may assign
type CommentAttributes struct {
	Text      *string    `json:"text"`
	PostID    *int64     `json:"post_id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
