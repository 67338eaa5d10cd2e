package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uuid.UUID `json:"id"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

type TagRepository interface {
	List(ctx context.Context) ([]*Tag, error)
	GetByName(ctx context.Context, name string) (*Tag, error)
}
