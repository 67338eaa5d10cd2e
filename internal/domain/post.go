package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	CreatorID uuid.UUID `json:"creator_id"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostFilter struct {
	Tags   []string
	Search string
	Limit  int
	Offset int
}

type PostRepository interface {
	// Create inserts the post and links its tag names, creating unknown tags
	// on the fly.
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context, filter PostFilter) ([]*Post, int, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Upvote records the user's upvote and bumps the counter. Returns false
	// when the user already upvoted the post.
	Upvote(ctx context.Context, postID, userID uuid.UUID) (bool, error)
}
