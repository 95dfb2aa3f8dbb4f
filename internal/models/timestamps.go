package models

import "time"

// Now is the clock used for created_at and updated_at.
// Postgres keeps microseconds, so the memory store truncates to match.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// stamps resolves the timestamps for a new row, preferring assigned values.
func stamps(createdAt, updatedAt *time.Time) (time.Time, time.Time) {
	now := Now()
	c, u := now, now
	if createdAt != nil {
		c = createdAt.UTC()
	}
	if updatedAt != nil {
		u = updatedAt.UTC()
	}
	return c, u
}

// NewPerson builds an unsaved person from assigned attributes.
func NewPerson(attrs PersonAttributes) Person {
	p := Person{Name: attrs.Name}
	p.CreatedAt, p.UpdatedAt = stamps(attrs.CreatedAt, attrs.UpdatedAt)
	return p
}

// Apply assigns the present attributes and touches updated_at.
func (p *Person) Apply(attrs PersonAttributes) {
	if attrs.Name != nil {
		p.Name = attrs.Name
	}
	if attrs.CreatedAt != nil {
		p.CreatedAt = attrs.CreatedAt.UTC()
	}
	p.UpdatedAt = touch(attrs.UpdatedAt)
}

// NewPost builds an unsaved post from assigned attributes.
func NewPost(attrs PostAttributes) Post {
	p := Post{
		Title:     attrs.Title,
		Body:      attrs.Body,
		Published: attrs.Published,
		PosterID:  attrs.PosterID,
	}
	p.CreatedAt, p.UpdatedAt = stamps(attrs.CreatedAt, attrs.UpdatedAt)
	return p
}

// Apply assigns the present attributes and touches updated_at.
func (p *Post) Apply(attrs PostAttributes) {
	if attrs.Title != nil {
		p.Title = attrs.Title
	}
	if attrs.Body != nil {
		p.Body = attrs.Body
	}
	if attrs.Published != nil {
		p.Published = attrs.Published
	}
	if attrs.PosterID != nil {
		p.PosterID = attrs.PosterID
	}
	if attrs.CreatedAt != nil {
		p.CreatedAt = attrs.CreatedAt.UTC()
	}
	p.UpdatedAt = touch(attrs.UpdatedAt)
}

// NewComment builds an unsaved comment from assigned attributes.
func NewComment(attrs CommentAttributes) Comment {
	c := Comment{Text: attrs.Text, PostID: attrs.PostID}
	c.CreatedAt, c.UpdatedAt = stamps(attrs.CreatedAt, attrs.UpdatedAt)
	return c
}

// Apply assigns the present attributes and touches updated_at.
func (c *Comment) Apply(attrs CommentAttributes) {
	if attrs.Text != nil {
		c.Text = attrs.Text
	}
	if attrs.PostID != nil {
		c.PostID = attrs.PostID
	}
	if attrs.CreatedAt != nil {
		c.CreatedAt = attrs.CreatedAt.UTC()
	}
	c.UpdatedAt = touch(attrs.UpdatedAt)
}

func touch(updatedAt *time.Time) time.Time {
	if updatedAt != nil {
		return updatedAt.UTC()
	}
	return Now()
}
