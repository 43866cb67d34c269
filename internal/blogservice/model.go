package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrNotPermitted     = errors.New("caller does not own this blog")
	ErrAuthorForeignKey = errors.New("author_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, subtitle, description, category, image_url, author_id, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	args := []any{
		blog.Title,
		blog.Subtitle,
		blog.Description,
		blog.Category,
		blog.ImageURL,
		blog.AuthorID,
		blog.IsPublished,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getBlogById(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := `
		SELECT id, title, subtitle, description, category, image_url, author_id, is_published, created_at, updated_at
		FROM blogs
		WHERE id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var blog Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Subtitle, &blog.Description, &blog.Category, &blog.ImageURL, &blog.AuthorID, &blog.IsPublished, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// getBlogs returns blogs newest-created-first. When publishedOnly is set the
// visibility filter is applied in SQL so unpublished rows never leave the
// database for anonymous callers.
func (m *BlogModel) getBlogs(ctx context.Context, publishedOnly bool) ([]Blog, error) {
	query := `
		SELECT id, title, subtitle, description, category, image_url, author_id, is_published, created_at, updated_at
		FROM blogs
		WHERE is_published = true OR $1 = false
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		var blog Blog
		err := rows.Scan(&blog.ID, &blog.Title, &blog.Subtitle, &blog.Description, &blog.Category, &blog.ImageURL, &blog.AuthorID, &blog.IsPublished, &blog.CreatedAt, &blog.UpdatedAt)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// deleteBlogCascade removes the blog and every comment referencing it in one
// transaction, comments first, so no comment can reference a missing blog.
func (m *BlogModel) deleteBlogCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE blog_id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows == 0 {
		_ = tx.Rollback()
		return ErrRecordNotFound
	}

	return tx.Commit()
}

// togglePublish flips is_published in a single UPDATE so concurrent toggles
// on the same blog linearize at the database rather than losing updates to a
// read-then-write race.
func (m *BlogModel) togglePublish(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := `
		UPDATE blogs
		SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1
		RETURNING id, title, subtitle, description, category, image_url, author_id, is_published, created_at, updated_at`

	var blog Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Subtitle, &blog.Description, &blog.Category, &blog.ImageURL, &blog.AuthorID, &blog.IsPublished, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *BlogModel) countBlogs(ctx context.Context) (int, int, error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE is_published = false)
		FROM blogs`

	var total, drafts int
	err := m.db.QueryRowContext(ctx, query).Scan(&total, &drafts)
	if err != nil {
		return 0, 0, err
	}

	return total, drafts, nil
}

func (m *BlogModel) recentBlogs(ctx context.Context, limit int) ([]Blog, error) {
	query := `
		SELECT id, title, subtitle, description, category, image_url, author_id, is_published, created_at, updated_at
		FROM blogs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		var blog Blog
		err := rows.Scan(&blog.ID, &blog.Title, &blog.Subtitle, &blog.Description, &blog.Category, &blog.ImageURL, &blog.AuthorID, &blog.IsPublished, &blog.CreatedAt, &blog.UpdatedAt)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	return blogs, rows.Err()
}
