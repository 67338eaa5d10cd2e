package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/forum-app/backend/internal/auth"
	"github.com/forum-app/backend/internal/domain"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidPost     = errors.New("post title and content are required")
	ErrAlreadyUpvoted  = errors.New("post already upvoted")
)

type PostUsecase struct {
	postRepo    domain.PostRepository
	commentRepo domain.CommentRepository
	tagRepo     domain.TagRepository
}

func NewPostUsecase(postRepo domain.PostRepository, commentRepo domain.CommentRepository, tagRepo domain.TagRepository) *PostUsecase {
	return &PostUsecase{postRepo: postRepo, commentRepo: commentRepo, tagRepo: tagRepo}
}

type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (u *PostUsecase) Create(ctx context.Context, actor *auth.Claims, input PostInput) (*domain.Post, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidPost
	}

	post := &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		CreatorID: actor.UserID,
		Tags:      normalizeTags(input.Tags),
	}

	if err := u.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (u *PostUsecase) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, int, error) {
	filter.Tags = normalizeTags(filter.Tags)
	return u.postRepo.List(ctx, filter)
}

func (u *PostUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := u.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Update modifies a post; only its creator may do so.
func (u *PostUsecase) Update(ctx context.Context, actor *auth.Claims, id uuid.UUID, input PostInput) (*domain.Post, error) {
	post, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.CreatorID != actor.UserID {
		return nil, ErrForbidden
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(input.Tags)
	}

	if err := u.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete removes a post; allowed for the creator or an admin.
func (u *PostUsecase) Delete(ctx context.Context, actor *auth.Claims, id uuid.UUID) error {
	post, err := u.Get(ctx, id)
	if err != nil {
		return err
	}

	if post.CreatorID != actor.UserID && !actor.HasAnyRole(domain.RoleAdmin) {
		return ErrForbidden
	}

	if err := u.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Upvote counts once per user per post.
func (u *PostUsecase) Upvote(ctx context.Context, actor *auth.Claims, id uuid.UUID) (*domain.Post, error) {
	post, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	upvoted, err := u.postRepo.Upvote(ctx, id, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("upvote post: %w", err)
	}
	if !upvoted {
		return nil, ErrAlreadyUpvoted
	}

	post.Upvotes++
	return post, nil
}

func (u *PostUsecase) CreateComment(ctx context.Context, actor *auth.Claims, postID uuid.UUID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidPost
	}

	if _, err := u.Get(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Content:   content,
		PostID:    postID,
		CreatorID: actor.UserID,
	}

	if err := u.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (u *PostUsecase) ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	if _, err := u.Get(ctx, postID); err != nil {
		return nil, err
	}
	return u.commentRepo.ListByPost(ctx, postID, limit, offset)
}

// DeleteComment removes a comment; allowed for its creator or an admin.
func (u *PostUsecase) DeleteComment(ctx context.Context, actor *auth.Claims, id uuid.UUID) error {
	comment, err := u.commentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup comment: %w", err)
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	if comment.CreatorID != actor.UserID && !actor.HasAnyRole(domain.RoleAdmin) {
		return ErrForbidden
	}

	if err := u.commentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (u *PostUsecase) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return u.tagRepo.List(ctx)
}
