package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/forum-app/backend/internal/domain"
)

// These tests need a live database; set TEST_DATABASE_URL to run them.

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedDBUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()

	name := "u" + uuid.NewString()[:12]
	user := &domain.User{
		Username:       name,
		Email:          name + "@x.com",
		HashedPassword: "x",
		FirstName:      "T",
		LastName:       "U",
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func activeTokenCount(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM refresh_tokens
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`, userID).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestRefreshTokenCreate_SupersedesPrior(t *testing.T) {
	pool := newTestPool(t)
	user := seedDBUser(t, pool)
	repo := NewRefreshTokenRepository(pool)

	first, err := repo.Create(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	require.Equal(t, 1, activeTokenCount(t, pool, user.ID))

	// The superseded token is gone from the store's point of view.
	got, err := repo.GetByToken(context.Background(), first.Token)
	require.NoError(t, err)
	require.Nil(t, got)
}

// Concurrent creates must leave exactly one active token. The revoking UPDATE
// by itself does not guarantee this: a second transaction blocked on the
// pre-existing row re-checks only rows from its own statement snapshot after
// the first commits, so the first's fresh insert would slip past it unrevoked.
// The per-user advisory lock closes that window.
func TestRefreshTokenCreate_ConcurrentSingleActive(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRefreshTokenRepository(pool)

	cases := []struct {
		name string
		seed func(t *testing.T, userID uuid.UUID)
	}{
		{"no prior token", func(t *testing.T, userID uuid.UUID) {}},
		{"prior active token", func(t *testing.T, userID uuid.UUID) {
			_, err := repo.Create(context.Background(), userID, time.Hour)
			require.NoError(t, err)
		}},
		{"prior expired token", func(t *testing.T, userID uuid.UUID) {
			_, err := repo.Create(context.Background(), userID, time.Millisecond)
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			user := seedDBUser(t, pool)
			tc.seed(t, user.ID)

			const workers = 8
			errs := make(chan error, workers)
			for i := 0; i < workers; i++ {
				go func() {
					_, err := repo.Create(context.Background(), user.ID, time.Hour)
					errs <- err
				}()
			}
			for i := 0; i < workers; i++ {
				require.NoError(t, <-errs)
			}

			require.Equal(t, 1, activeTokenCount(t, pool, user.ID))
		})
	}
}

func TestRefreshTokenRevoke_Idempotent(t *testing.T) {
	pool := newTestPool(t)
	user := seedDBUser(t, pool)
	repo := NewRefreshTokenRepository(pool)

	token, err := repo.Create(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.Revoke(context.Background(), token.Token))
	require.NoError(t, repo.Revoke(context.Background(), token.Token))
	require.NoError(t, repo.Revoke(context.Background(), "no-such-token"))

	require.Zero(t, activeTokenCount(t, pool, user.ID))
}
