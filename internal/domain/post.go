package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a community post.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Content   string
	LikeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Href returns the client route of the post.
func (p *Post) Href() string {
	return "/posts/" + p.ID.String()
}

// Like records that a user liked a post.
type Like struct {
	UserID    uuid.UUID
	PostID    uuid.UUID
	CreatedAt time.Time
}

// LikedPost is a row of the liked-posts feed.
type LikedPost struct {
	Post
	LikedAt time.Time
}
