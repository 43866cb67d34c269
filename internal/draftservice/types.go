package draftservice

import (
	"context"
	"errors"
)

var ErrGenerationFailed = errors.New("draft generation failed")

// Generator turns a topic prompt into draft prose. A failing generator must
// never block manual blog creation, so callers treat ErrGenerationFailed as
// a soft failure.
type Generator interface {
	GenerateDraft(ctx context.Context, prompt string) (string, error)
}
