package commentservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/elmwoodlabs/quillpress/internal/common"
)

// Comment is an anonymous annotation on a blog. It has no owning author
// account, only a back-reference to the blog it was left on, and starts life
// unapproved.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	BlogID     uuid.UUID `json:"blog_id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// ModerationComment is the admin review row: the comment plus the title of
// the blog it belongs to.
type ModerationComment struct {
	Comment
	BlogTitle string `json:"blog_title"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m      *CommentModel
	mb     common.MessageProducer
	c      *common.Cache
	logger *slog.Logger
}

// commentCreatedEvent is the payload published for the moderation mail
// consumer when a new comment enters the queue.
type commentCreatedEvent struct {
	AuthorEmail string
	BlogTitle   string
	CommentName string
}
