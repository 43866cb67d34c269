package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/elmwoodlabs/quillpress/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:     mb,
		m:      NewMailer(host, port, username, password, sender, NewTemplate()),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendModerationEmail consumes comment.created events and notifies the blog
// author that a comment is waiting for review.
func (s *MailService) SendModerationEmail() {
	msgs, err := s.mb.Consume(common.CommentCreatedKey, common.CommentExchange, common.CommentCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					AuthorEmail string
					BlogTitle   string
					CommentName string
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					continue
				}

				payload := struct {
					BlogTitle   string
					CommentName string
				}{
					BlogTitle:   data.BlogTitle,
					CommentName: data.CommentName,
				}

				// using exponential backoff with jitter
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(data.AuthorEmail, payload, "comment_notification.html")
					if err == nil {
						s.logger.Info("moderation email sent", slog.String("email", data.AuthorEmail))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying moderation email", slog.String("email", data.AuthorEmail), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send moderation email", slog.String("email", data.AuthorEmail))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping SendModerationEmail due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
