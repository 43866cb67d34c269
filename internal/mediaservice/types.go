package mediaservice

import (
	"context"
	"errors"
	"io"
)

var ErrUploadFailed = errors.New("image upload failed")

// Uploader stores an image and returns the durable URL it will be served
// from. The blog lifecycle depends on this capability only, never on the
// concrete transport behind it.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, fileName string) (string, error)
}
