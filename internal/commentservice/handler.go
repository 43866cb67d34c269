package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/elmwoodlabs/quillpress/internal/common"
)

func NewCommentService(db *sql.DB, mb common.MessageProducer, c *common.Cache, logger *slog.Logger) *CommentService {
	return &CommentService{
		m:      newCommentModel(db),
		mb:     mb,
		c:      c,
		logger: logger,
	}
}

// SubmitComment accepts an anonymous comment into the moderation queue. The
// comment starts unapproved and never appears publicly before an explicit
// approval. A comment.created event is published for the notification
// consumer; a broker failure must not fail the submission.
func (s *CommentService) SubmitComment(ctx context.Context, blogID uuid.UUID, name, content string) (*Comment, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := &Comment{
		BlogID:  blogID,
		Name:    name,
		Content: content,
	}

	err := s.m.insert(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, comment)

	return comment, nil
}

func (s *CommentService) publishCreated(ctx context.Context, comment *Comment) {
	title, email, err := s.m.notifyInfo(ctx, comment.BlogID)
	if err != nil {
		s.logger.Error("could not resolve comment notification target", slog.String("error", err.Error()))
		return
	}

	data, err := json.Marshal(commentCreatedEvent{
		AuthorEmail: email,
		BlogTitle:   title,
		CommentName: comment.Name,
	})
	if err != nil {
		s.logger.Error("could not marshal comment event", slog.String("error", err.Error()))
		return
	}

	err = s.mb.Publish(ctx, data, common.CommentCreatedKey, common.CommentExchange)
	if err != nil {
		s.logger.Error("could not publish comment event", slog.String("error", err.Error()))
	}
}

// GetApprovedComments lists the approved comments of a blog, newest first.
// This is the public read path and is served from cache when warm.
func (s *CommentService) GetApprovedComments(ctx context.Context, blogID uuid.UUID) ([]Comment, error) {
	key := common.CacheKeyApprovedComments(blogID.String())

	if cached, ok := s.c.Get(key); ok {
		return cached.([]Comment), nil
	}

	comments, err := s.m.getApprovedByBlogId(ctx, blogID)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, comments)

	return comments, nil
}

// GetAllComments returns every comment across all blogs, pending and
// approved, for the moderation view.
func (s *CommentService) GetAllComments(ctx context.Context) ([]ModerationComment, error) {
	return s.m.getAll(ctx)
}

// ApproveComment performs the one-way pending to approved transition.
// Approving twice is a no-op, not an error.
func (s *CommentService) ApproveComment(ctx context.Context, id uuid.UUID) error {
	blogID, err := s.m.approve(ctx, id)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyApprovedComments(blogID.String()))

	return nil
}

// DeleteComment permanently removes a comment from any state.
func (s *CommentService) DeleteComment(ctx context.Context, id uuid.UUID) error {
	blogID, err := s.m.delete(ctx, id)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyApprovedComments(blogID.String()))

	return nil
}

// CountComments reports the total number of comments for the dashboard.
func (s *CommentService) CountComments(ctx context.Context) (int, error) {
	return s.m.count(ctx)
}
