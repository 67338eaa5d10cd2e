package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forum-app/backend/internal/domain"
)

// In-memory repository fakes. They mirror the semantics of the postgres
// implementations, including the revoke-then-create compound step of the
// refresh token store.

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*domain.User
	followsUser  map[uuid.UUID]map[uuid.UUID]bool
	followsTag   map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       map[uuid.UUID]*domain.User{},
		followsUser: map[uuid.UUID]map[uuid.UUID]bool{},
		followsTag:  map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*domain.User
	for _, u := range r.users {
		clone := *u
		users = append(users, &clone)
	}
	total := len(users)
	if offset > len(users) {
		offset = len(users)
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return domain.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FollowUser(_ context.Context, userID, targetID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.followsUser[userID] == nil {
		r.followsUser[userID] = map[uuid.UUID]bool{}
	}
	if r.followsUser[userID][targetID] {
		return false, nil
	}
	r.followsUser[userID][targetID] = true
	return true, nil
}

func (r *fakeUserRepo) UnfollowUser(_ context.Context, userID, targetID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.followsUser[userID][targetID] {
		return false, nil
	}
	delete(r.followsUser[userID], targetID)
	return true, nil
}

func (r *fakeUserRepo) FollowTag(_ context.Context, userID, tagID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.followsTag[userID] == nil {
		r.followsTag[userID] = map[uuid.UUID]bool{}
	}
	if r.followsTag[userID][tagID] {
		return false, nil
	}
	r.followsTag[userID][tagID] = true
	return true, nil
}

func (r *fakeUserRepo) UnfollowTag(_ context.Context, userID, tagID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.followsTag[userID][tagID] {
		return false, nil
	}
	delete(r.followsTag[userID], tagID)
	return true, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []*domain.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{}
}

func (r *fakeTokenRepo) Create(_ context.Context, userID uuid.UUID, ttl time.Duration) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.IsActive() {
			revokedAt := now
			t.RevokedAt = &revokedAt
		}
	}
	token := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     uuid.NewString() + uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	r.tokens = append(r.tokens, token)
	clone := *token
	return &clone, nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token && t.IsActive() {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) GetActiveByUser(_ context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *domain.RefreshToken
	for _, t := range r.tokens {
		if t.UserID == userID && t.IsActive() {
			if newest == nil || t.CreatedAt.After(newest.CreatedAt) {
				newest = t
			}
		}
	}
	if newest == nil {
		return nil, nil
	}
	clone := *newest
	return &clone, nil
}

func (r *fakeTokenRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token && t.RevokedAt == nil {
			revokedAt := time.Now()
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (r *fakeTokenRepo) SweepExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*domain.RefreshToken
	var removed int64
	for _, t := range r.tokens {
		if t.IsExpired() {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return removed, nil
}

// activeCount reports how many active tokens a user holds; used to assert the
// single-active-token invariant.
func (r *fakeTokenRepo) activeCount(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.tokens {
		if t.UserID == userID && t.IsActive() {
			count++
		}
	}
	return count
}

type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[string]*domain.Tag
}

func newFakeTagRepo(names ...string) *fakeTagRepo {
	r := &fakeTagRepo{tags: map[string]*domain.Tag{}}
	for _, name := range names {
		r.tags[name] = &domain.Tag{ID: uuid.New(), Tag: name, CreatedAt: time.Now()}
	}
	return r
}

func (r *fakeTagRepo) List(_ context.Context) ([]*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tags []*domain.Tag
	for _, t := range r.tags {
		clone := *t
		tags = append(tags, &clone)
	}
	return tags, nil
}

func (r *fakeTagRepo) GetByName(_ context.Context, name string) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[name]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, nil
}

type fakePostRepo struct {
	mu      sync.Mutex
	posts   map[uuid.UUID]*domain.Post
	upvotes map[uuid.UUID]map[uuid.UUID]bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:   map[uuid.UUID]*domain.Post{},
		upvotes: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (r *fakePostRepo) List(_ context.Context, filter domain.PostFilter) ([]*domain.Post, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []*domain.Post
	for _, p := range r.posts {
		clone := *p
		posts = append(posts, &clone)
	}
	return posts, len(posts), nil
}

func (r *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.UpdatedAt = time.Now()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) Upvote(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upvotes[postID] == nil {
		r.upvotes[postID] = map[uuid.UUID]bool{}
	}
	if r.upvotes[postID][userID] {
		return false, nil
	}
	r.upvotes[postID][userID] = true
	if p, ok := r.posts[postID]; ok {
		p.Upvotes++
	}
	return true, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uuid.UUID]*domain.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []*domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			clone := *c
			comments = append(comments, &clone)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}
