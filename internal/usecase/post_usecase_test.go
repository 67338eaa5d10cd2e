package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/forum-app/backend/internal/domain"
)

func newTestPostUsecase() (*PostUsecase, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	return NewPostUsecase(newFakePostRepo(), newFakeCommentRepo(), newFakeTagRepo()), userRepo
}

func TestPostUsecase_Create(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")

	post, err := uc.Create(context.Background(), claimsFor(alice), PostInput{
		Title:   "Hello",
		Content: "First post",
		Tags:    []string{"Go", "go", "  web  ", ""},
	})
	require.NoError(t, err)
	require.Equal(t, alice.ID, post.CreatorID)
	// Tags are lowercased, trimmed and deduplicated.
	require.Equal(t, []string{"go", "web"}, post.Tags)
}

func TestPostUsecase_CreateValidation(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")

	_, err := uc.Create(context.Background(), claimsFor(alice), PostInput{Title: " ", Content: "x"})
	require.ErrorIs(t, err, ErrInvalidPost)

	_, err = uc.Create(context.Background(), claimsFor(alice), PostInput{Title: "x", Content: ""})
	require.ErrorIs(t, err, ErrInvalidPost)
}

func TestPostUsecase_Get(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")

	post, err := uc.Create(context.Background(), claimsFor(alice), PostInput{Title: "Hello", Content: "x"})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), post.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)

	_, err = uc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostUsecase_UpdatePermissions(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")

	post, err := uc.Create(context.Background(), claimsFor(alice), PostInput{Title: "Hello", Content: "x"})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), claimsFor(bob), post.ID, PostInput{Title: "Hijack"})
	require.ErrorIs(t, err, ErrForbidden)

	updated, err := uc.Update(context.Background(), claimsFor(alice), post.ID, PostInput{Title: "Hello again"})
	require.NoError(t, err)
	require.Equal(t, "Hello again", updated.Title)
	require.Equal(t, "x", updated.Content)
}

func TestPostUsecase_DeletePermissions(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")
	admin := seedUser(t, userRepo, "admin", domain.RoleAdmin)

	post, err := uc.Create(context.Background(), claimsFor(alice), PostInput{Title: "Hello", Content: "x"})
	require.NoError(t, err)

	require.ErrorIs(t, uc.Delete(context.Background(), claimsFor(bob), post.ID), ErrForbidden)
	require.NoError(t, uc.Delete(context.Background(), claimsFor(admin), post.ID))

	_, err = uc.Get(context.Background(), post.ID)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostUsecase_UpvoteOncePerUser(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")

	post, err := uc.Create(context.Background(), claimsFor(alice), PostInput{Title: "Hello", Content: "x"})
	require.NoError(t, err)

	upvoted, err := uc.Upvote(context.Background(), claimsFor(bob), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, upvoted.Upvotes)

	_, err = uc.Upvote(context.Background(), claimsFor(bob), post.ID)
	require.ErrorIs(t, err, ErrAlreadyUpvoted)

	upvoted, err = uc.Upvote(context.Background(), claimsFor(alice), post.ID)
	require.NoError(t, err)
	require.Equal(t, 2, upvoted.Upvotes)
}

func TestPostUsecase_Comments(t *testing.T) {
	t.Parallel()
	uc, userRepo := newTestPostUsecase()
	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")
	admin := seedUser(t, userRepo, "admin", domain.RoleAdmin)

	post, err := uc.Create(context.Background(), claimsFor(alice), PostInput{Title: "Hello", Content: "x"})
	require.NoError(t, err)

	_, err = uc.CreateComment(context.Background(), claimsFor(bob), uuid.New(), "orphan")
	require.ErrorIs(t, err, ErrPostNotFound)

	comment, err := uc.CreateComment(context.Background(), claimsFor(bob), post.ID, "nice post")
	require.NoError(t, err)
	require.Equal(t, bob.ID, comment.CreatorID)

	comments, err := uc.ListComments(context.Background(), post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.ErrorIs(t, uc.DeleteComment(context.Background(), claimsFor(alice), comment.ID), ErrForbidden)
	require.NoError(t, uc.DeleteComment(context.Background(), claimsFor(admin), comment.ID))
	require.ErrorIs(t, uc.DeleteComment(context.Background(), claimsFor(admin), comment.ID), ErrCommentNotFound)
}
