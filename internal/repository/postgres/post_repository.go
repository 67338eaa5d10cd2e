package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forum-app/backend/internal/domain"
)

type PostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `
	p.id, p.title, p.content, p.upvotes, p.creator_id, p.created_at, p.updated_at,
	COALESCE(array_agg(t.tag ORDER BY t.tag) FILTER (WHERE t.tag IS NOT NULL), '{}')
`

const postJoins = `
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id
`

func scanPost(row pgx.Row) (*domain.Post, error) {
	post := &domain.Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Upvotes,
		&post.CreatorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Tags,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, title, content, upvotes, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, post.ID, post.Title, post.Content, post.Upvotes, post.CreatorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return err
	}

	if err := linkTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// linkTags upserts each tag name and attaches it to the post.
func linkTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, tags []string) error {
	for _, name := range tags {
		var tagID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO tags (id, tag, created_at) VALUES ($1, $2, NOW())
			ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
			RETURNING id
		`, uuid.New(), name).Scan(&tagID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT ` + postColumns + `
		FROM posts p ` + postJoins + `
		WHERE p.id = $1
		GROUP BY p.id
	`
	return scanPost(r.db.QueryRow(ctx, query, id))
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	tags := filter.Tags
	if tags == nil {
		tags = []string{}
	}

	where := `
		WHERE ($1 = '' OR p.title ILIKE '%' || $1 || '%')
		AND (cardinality($2::text[]) = 0 OR EXISTS (
			SELECT 1 FROM post_tags fpt
			JOIN tags ft ON ft.id = fpt.tag_id
			WHERE fpt.post_id = p.id AND ft.tag = ANY($2)
		))
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p ` + where
	if err := r.db.QueryRow(ctx, countQuery, filter.Search, tags).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p ` + postJoins + where + `
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, filter.Search, tags, limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post := &domain.Post{}
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.Upvotes,
			&post.CreatorID,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.Tags,
		); err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}

	return posts, total, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	post.UpdatedAt = time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE posts SET title = $2, content = $3, updated_at = $4 WHERE id = $1
	`, post.ID, post.Title, post.Content, post.UpdatedAt)
	if err != nil {
		return err
	}

	// Re-link tags from scratch so removals take effect.
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, post.ID); err != nil {
		return err
	}
	if err := linkTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *PostRepository) Upvote(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO user_upvoted_posts (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, postID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `UPDATE posts SET upvotes = upvotes + 1 WHERE id = $1`, postID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}
