package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forum-app/backend/internal/auth"
	"github.com/forum-app/backend/internal/domain"
)

var (
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenNotFound      = errors.New("refresh token not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

// dummyHash is a valid bcrypt hash of a throwaway value. Login runs a compare
// against it when the email is unknown so the unknown-email and wrong-password
// paths take comparable time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthUsecase drives the credential lifecycle: register, login, refresh and
// logout, plus the one-active-refresh-token-per-user invariant enforced by
// the token store.
//
// Refresh policy: the refresh token is NOT rotated on use. It stays valid
// until its own expiry, the next login (which supersedes it) or an explicit
// logout. Only the access token rotates on refresh.
type AuthUsecase struct {
	userRepo   domain.UserRepository
	tokenRepo  domain.RefreshTokenRepository
	hasher     *auth.PasswordHasher
	codec      *auth.TokenCodec
	refreshTTL time.Duration
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokenRepo domain.RefreshTokenRepository,
	hasher *auth.PasswordHasher,
	codec *auth.TokenCodec,
	refreshTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		hasher:     hasher,
		codec:      codec,
		refreshTTL: refreshTTL,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error) {
	if existing, err := u.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, nil, ErrUserExists
	}
	if existing, err := u.userRepo.GetByUsername(ctx, input.Username); err != nil {
		return nil, nil, fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return nil, nil, ErrUserExists
	}

	hashed, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashed,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Roles:          []string{domain.RoleDefault},
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// The pre-checks race with concurrent registrations; the unique
		// constraint is the authority.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		u.hasher.Verify(password, dummyHash)
		return nil, nil, ErrUserNotFound
	}

	if !u.hasher.Verify(password, user.HashedPassword) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Me returns the profile behind the verified claims. The user may have been
// deleted after the token was issued.
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Logout revokes the user's active refresh token. A second logout finds no
// active token and reports ErrTokenNotFound; callers treat that as
// already-logged-out.
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID) error {
	token, err := u.tokenRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup active token: %w", err)
	}
	if token == nil {
		return ErrTokenNotFound
	}

	if err := u.tokenRepo.Revoke(ctx, token.Token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new access token with a fresh jti.
// Absent, expired and revoked tokens all surface as ErrTokenNotFound so the
// caller learns nothing about which it was. When expectedUserID is set (the
// caller also presented an access token), the refresh token must belong to
// that user.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string, expectedUserID uuid.UUID) (*AccessToken, error) {
	stored, err := u.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if stored == nil {
		return nil, ErrTokenNotFound
	}

	if expectedUserID != uuid.Nil && stored.UserID != expectedUserID {
		return nil, ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrTokenNotFound
	}

	access, claims, err := u.codec.Issue(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AccessToken{
		AccessToken: access,
		ExpiresAt:   claims.ExpiresAt.Unix(),
	}, nil
}

// SweepExpiredTokens deletes refresh tokens past expiry. Best-effort
// maintenance; safe to run concurrently with everything else.
func (u *AuthUsecase) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return u.tokenRepo.SweepExpired(ctx)
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, claims, err := u.codec.Issue(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	// The store revokes any prior active token for this user in the same
	// transaction as the insert.
	refresh, err := u.tokenRepo.Create(ctx, user.ID, u.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresAt:    claims.ExpiresAt.Unix(),
	}, nil
}
