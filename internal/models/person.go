package models

import "time"

// Person is the author of posts
type Person struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PersonAttributes lists the person fields a request body may assign
type PersonAttributes struct {
	Name      *string    `json:"name" validate:"omitempty,max=255"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
