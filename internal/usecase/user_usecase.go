package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/forum-app/backend/internal/auth"
	"github.com/forum-app/backend/internal/domain"
)

var (
	ErrForbidden        = errors.New("operation not permitted")
	ErrTagNotFound      = errors.New("tag not found")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrInvalidRole      = errors.New("invalid role")
)

type UserUsecase struct {
	userRepo domain.UserRepository
	tagRepo  domain.TagRepository
}

func NewUserUsecase(userRepo domain.UserRepository, tagRepo domain.TagRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, tagRepo: tagRepo}
}

func (u *UserUsecase) List(ctx context.Context, limit, offset int) ([]*domain.User, int, error) {
	return u.userRepo.List(ctx, limit, offset)
}

func (u *UserUsecase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

type UpdateUserInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Update modifies a profile. Only the user themselves or an admin may do so.
func (u *UserUsecase) Update(ctx context.Context, actor *auth.Claims, username string, input UpdateUserInput) (*domain.User, error) {
	user, err := u.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.ID != actor.UserID && !actor.HasAnyRole(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateRoles replaces a user's role set. Reaching this requires the ADMIN
// role; the gate sits at the routing layer.
func (u *UserUsecase) UpdateRoles(ctx context.Context, username string, roles []string) (*domain.User, error) {
	if len(roles) == 0 {
		return nil, ErrInvalidRole
	}
	for _, role := range roles {
		switch role {
		case domain.RoleDefault, domain.RoleStudent, domain.RoleTeacher, domain.RoleAdmin:
		default:
			return nil, ErrInvalidRole
		}
	}

	user, err := u.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.Roles = roles
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update roles: %w", err)
	}
	return user, nil
}

// Delete removes an account. Refresh tokens, posts and follow edges go with
// it via foreign keys.
func (u *UserUsecase) Delete(ctx context.Context, actor *auth.Claims, username string) error {
	user, err := u.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.ID != actor.UserID && !actor.HasAnyRole(domain.RoleAdmin) {
		return ErrForbidden
	}

	if err := u.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (u *UserUsecase) FollowUser(ctx context.Context, actor *auth.Claims, targetUsername string) error {
	target, err := u.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == actor.UserID {
		return ErrForbidden
	}

	followed, err := u.userRepo.FollowUser(ctx, actor.UserID, target.ID)
	if err != nil {
		return fmt.Errorf("follow user: %w", err)
	}
	if !followed {
		return ErrAlreadyFollowing
	}
	return nil
}

func (u *UserUsecase) UnfollowUser(ctx context.Context, actor *auth.Claims, targetUsername string) error {
	target, err := u.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	unfollowed, err := u.userRepo.UnfollowUser(ctx, actor.UserID, target.ID)
	if err != nil {
		return fmt.Errorf("unfollow user: %w", err)
	}
	if !unfollowed {
		return ErrNotFollowing
	}
	return nil
}

func (u *UserUsecase) FollowTag(ctx context.Context, actor *auth.Claims, tagName string) error {
	tag, err := u.tagRepo.GetByName(ctx, tagName)
	if err != nil {
		return fmt.Errorf("lookup tag: %w", err)
	}
	if tag == nil {
		return ErrTagNotFound
	}

	followed, err := u.userRepo.FollowTag(ctx, actor.UserID, tag.ID)
	if err != nil {
		return fmt.Errorf("follow tag: %w", err)
	}
	if !followed {
		return ErrAlreadyFollowing
	}
	return nil
}

func (u *UserUsecase) UnfollowTag(ctx context.Context, actor *auth.Claims, tagName string) error {
	tag, err := u.tagRepo.GetByName(ctx, tagName)
	if err != nil {
		return fmt.Errorf("lookup tag: %w", err)
	}
	if tag == nil {
		return ErrTagNotFound
	}

	unfollowed, err := u.userRepo.UnfollowTag(ctx, actor.UserID, tag.ID)
	if err != nil {
		return fmt.Errorf("unfollow tag: %w", err)
	}
	if !unfollowed {
		return ErrNotFollowing
	}
	return nil
}
