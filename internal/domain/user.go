package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role names, ordered from least to most privileged.
const (
	RoleDefault = "DEFAULT"
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FollowUser returns false when the follow edge already exists.
	FollowUser(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
	// UnfollowUser returns false when there was no follow edge to remove.
	UnfollowUser(ctx context.Context, userID, targetID uuid.UUID) (bool, error)
	FollowTag(ctx context.Context, userID, tagID uuid.UUID) (bool, error)
	UnfollowTag(ctx context.Context, userID, tagID uuid.UUID) (bool, error)
}
