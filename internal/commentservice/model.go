package commentservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrBlogNotFound   = errors.New("blog does not exist")
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func foreignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *CommentModel) insert(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (blog_id, name, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_approved, created_at`

	err := m.db.QueryRowContext(ctx, query, comment.BlogID, comment.Name, comment.Content).Scan(&comment.ID, &comment.IsApproved, &comment.CreatedAt)
	if err != nil {
		switch {
		case foreignKeyError(err, "comments_blog_id_fkey"):
			return ErrBlogNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) getApprovedByBlogId(ctx context.Context, blogID uuid.UUID) ([]Comment, error) {
	query := `
		SELECT id, blog_id, name, content, is_approved, created_at
		FROM comments
		WHERE blog_id = $1 AND is_approved = true
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.BlogID, &c.Name, &c.Content, &c.IsApproved, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// getAll returns every comment, pending and approved, joined with the blog
// title for the moderation view.
func (m *CommentModel) getAll(ctx context.Context) ([]ModerationComment, error) {
	query := `
		SELECT c.id, c.blog_id, c.name, c.content, c.is_approved, c.created_at, b.title
		FROM comments c
		JOIN blogs b ON c.blog_id = b.id
		ORDER BY c.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []ModerationComment
	for rows.Next() {
		var c ModerationComment
		err := rows.Scan(&c.ID, &c.BlogID, &c.Name, &c.Content, &c.IsApproved, &c.CreatedAt, &c.BlogTitle)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// approve marks the comment approved. The transition is one-way; approving
// an already approved comment is a no-op that still reports success.
func (m *CommentModel) approve(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	query := `
		UPDATE comments
		SET is_approved = true
		WHERE id = $1
		RETURNING blog_id`

	var blogID uuid.UUID
	err := m.db.QueryRowContext(ctx, query, id).Scan(&blogID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return uuid.Nil, ErrRecordNotFound
		default:
			return uuid.Nil, err
		}
	}

	return blogID, nil
}

func (m *CommentModel) delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	query := `
		DELETE FROM comments
		WHERE id = $1
		RETURNING blog_id`

	var blogID uuid.UUID
	err := m.db.QueryRowContext(ctx, query, id).Scan(&blogID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return uuid.Nil, ErrRecordNotFound
		default:
			return uuid.Nil, err
		}
	}

	return blogID, nil
}

func (m *CommentModel) count(ctx context.Context) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx, `SELECT count(*) FROM comments`).Scan(&count)
	return count, err
}

// notifyInfo looks up the blog title and owning author's email for the
// moderation notification.
func (m *CommentModel) notifyInfo(ctx context.Context, blogID uuid.UUID) (title, email string, err error) {
	query := `
		SELECT b.title, a.email
		FROM blogs b
		JOIN authors a ON b.author_id = a.id
		WHERE b.id = $1`

	err = m.db.QueryRowContext(ctx, query, blogID).Scan(&title, &email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", "", ErrBlogNotFound
		default:
			return "", "", err
		}
	}

	return title, email, nil
}
