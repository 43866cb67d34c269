package mediaservice

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, r io.Reader, fileName string) (string, error) {
	args := m.Called(ctx, r, fileName)
	return args.String(0), args.Error(1)
}
