package main

import (
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
)

func newRouterTestApplication(t *testing.T) *application {
	app := &application{
		config:      &Config{CommentRateRPS: 2, CommentRateBurst: 4},
		logger:      slog.New(slog.NewTextHandler(os.Stdout, nil)),
		authService: authservice.NewAuthService(nil, "test-secret", time.Hour),
		quit:        make(chan struct{}),
	}

	t.Cleanup(func() { close(app.quit) })

	return app
}

// The blog subtree mixes fixed segments with a blog id in the same position,
// which httprouter cannot register side by side. Building the full route
// table must not panic.
func TestRoutesRegistration(t *testing.T) {
	app := newRouterTestApplication(t)

	assert.NotPanics(t, func() {
		app.routes()
	})
}

func TestBlogDispatch(t *testing.T) {
	app := newRouterTestApplication(t)
	ts := newTestServer(t, app.routes())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{
			name:           "Get Nested Unknown Path",
			method:         http.MethodGet,
			path:           "/api/blog/x/y/z",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Get Blog With Invalid Id",
			method:         http.MethodGet,
			path:           "/api/blog/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Get Comments With Invalid Id",
			method:         http.MethodGet,
			path:           "/api/blog/comments/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Post Blog Root",
			method:         http.MethodPost,
			path:           "/api/blog/",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Post Add Without Token",
			method:         http.MethodPost,
			path:           "/api/blog/add",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Delete Blog Without Token",
			method:         http.MethodPost,
			path:           "/api/blog/7f1f9df2-64f8-4f86-9b4e-6f0d4d6e9d2a",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Generate Without Token",
			method:         http.MethodPost,
			path:           "/api/blog/generate",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			assert.NoError(t, err)

			res, err := ts.Client().Do(req)
			assert.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.expectedStatus, res.StatusCode)
		})
	}
}
