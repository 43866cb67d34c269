package blogservice

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
	"github.com/elmwoodlabs/quillpress/internal/common"
	"github.com/elmwoodlabs/quillpress/internal/mediaservice"
)

// setupTestAuthor is a helper function to create a test author in the database.
func setupTestAuthor(db *sql.DB, email string) (uuid.UUID, error) {
	query := `
		INSERT INTO authors (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id uuid.UUID
	err := db.QueryRow(query, "Test Author", email, []byte("not-a-real-hash")).Scan(&id)
	return id, err
}

func setupTestEnvironment(t *testing.T) (*BlogService, *mediaservice.MockUploader, *sql.DB, uuid.UUID) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	authorID, err := setupTestAuthor(db, "author@example.com")
	assert.NoError(t, err)

	uploader := new(mediaservice.MockUploader)

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM comments")
		_, _ = db.Exec("DELETE FROM blogs")
		cache.Flush()
	})

	return NewBlogService(db, uploader, cache), uploader, db, authorID
}

func validCreateRequest(authorID uuid.UUID) *CreateBlogRequest {
	return &CreateBlogRequest{
		Title:       "Hello",
		Subtitle:    "A greeting",
		Description: "<p>First post</p>",
		Category:    CategoryTechnology,
		Image:       strings.NewReader("fake image bytes"),
		ImageName:   "cover.png",
		AuthorID:    authorID,
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	assert.NoError(t, err)
	return count
}

func TestCreateBlog(t *testing.T) {
	s, uploader, db, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, "cover.png").Return("https://img.example.com/blogs/cover.png", nil)

	testCases := []struct {
		name        string
		mutate      func(req *CreateBlogRequest)
		expectedErr error
	}{
		{
			name:   "valid blog",
			mutate: func(req *CreateBlogRequest) {},
		},
		{
			name:        "empty title",
			mutate:      func(req *CreateBlogRequest) { req.Title = "" },
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name:        "empty description",
			mutate:      func(req *CreateBlogRequest) { req.Description = "" },
			expectedErr: common.ValidationError{Errors: map[string]string{"description": "must be provided"}},
		},
		{
			name:        "unknown category",
			mutate:      func(req *CreateBlogRequest) { req.Category = "Gardening" },
			expectedErr: common.ValidationError{Errors: map[string]string{"category": "must be a known category"}},
		},
		{
			name:        "missing image",
			mutate:      func(req *CreateBlogRequest) { req.Image = nil; req.ImageName = "" },
			expectedErr: common.ValidationError{Errors: map[string]string{"image": "must be provided"}},
		},
		{
			name:        "unknown author",
			mutate:      func(req *CreateBlogRequest) { req.AuthorID = uuid.New() },
			expectedErr: ErrAuthorForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := countRows(t, db, "blogs")

			req := validCreateRequest(authorID)
			tc.mutate(req)

			blog, err := s.CreateBlog(ctx, req)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.NotEqual(t, uuid.Nil, blog.ID)
				assert.Equal(t, "https://img.example.com/blogs/cover.png", blog.ImageURL)
				assert.False(t, blog.IsPublished)
				assert.Equal(t, before+1, countRows(t, db, "blogs"))
			} else {
				// a failed create must not leave a row behind
				assert.Equal(t, before, countRows(t, db, "blogs"))
			}
		})
	}
}

func TestCreateBlogUploadFailure(t *testing.T) {
	s, uploader, db, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, "cover.png").Return("", mediaservice.ErrUploadFailed)

	blog, err := s.CreateBlog(ctx, validCreateRequest(authorID))
	assert.Nil(t, blog)
	assert.ErrorIs(t, err, mediaservice.ErrUploadFailed)
	assert.Equal(t, 0, countRows(t, db, "blogs"))
}

func TestGetBlogsVisibility(t *testing.T) {
	s, uploader, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example.com/x.png", nil)

	draft, err := s.CreateBlog(ctx, validCreateRequest(authorID))
	assert.NoError(t, err)

	identity := &authservice.Identity{AuthorID: authorID}

	// anonymous listing is empty while the only blog is a draft
	blogs, err := s.GetBlogs(ctx, &authservice.AnonymousIdentity)
	assert.NoError(t, err)
	assert.Empty(t, blogs)

	// the authenticated listing contains it
	blogs, err = s.GetBlogs(ctx, identity)
	assert.NoError(t, err)
	assert.Len(t, blogs, 1)
	assert.Equal(t, "Hello", blogs[0].Title)
	assert.False(t, blogs[0].IsPublished)

	// publishing makes it visible to anonymous callers
	updated, err := s.TogglePublish(ctx, draft.ID, identity)
	assert.NoError(t, err)
	assert.True(t, updated.IsPublished)

	blogs, err = s.GetBlogs(ctx, &authservice.AnonymousIdentity)
	assert.NoError(t, err)
	assert.Len(t, blogs, 1)
}

func TestGetBlogsOrder(t *testing.T) {
	s, uploader, db, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example.com/x.png", nil)

	for _, title := range []string{"First", "Second", "Third"} {
		req := validCreateRequest(authorID)
		req.Title = title
		blog, err := s.CreateBlog(ctx, req)
		assert.NoError(t, err)

		// separate created_at values; the column has second precision
		_, err = db.Exec("UPDATE blogs SET created_at = created_at - make_interval(secs => (SELECT 3 - count(*) FROM blogs)) WHERE id = $1", blog.ID)
		assert.NoError(t, err)
	}

	blogs, err := s.GetBlogs(ctx, &authservice.Identity{AuthorID: authorID})
	assert.NoError(t, err)
	assert.Len(t, blogs, 3)
	assert.Equal(t, "Third", blogs[0].Title)
	assert.Equal(t, "First", blogs[2].Title)
}

func TestGetBlogByID(t *testing.T) {
	s, uploader, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example.com/x.png", nil)

	created, err := s.CreateBlog(ctx, validCreateRequest(authorID))
	assert.NoError(t, err)

	// an unpublished blog is still fetchable by id, no caller required
	blog, err := s.GetBlogByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, blog.ID)
	assert.False(t, blog.IsPublished)

	_, err = s.GetBlogByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestTogglePublish(t *testing.T) {
	s, uploader, db, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example.com/x.png", nil)

	created, err := s.CreateBlog(ctx, validCreateRequest(authorID))
	assert.NoError(t, err)

	owner := &authservice.Identity{AuthorID: authorID}

	// toggling twice returns the blog to its original state
	first, err := s.TogglePublish(ctx, created.ID, owner)
	assert.NoError(t, err)
	assert.True(t, first.IsPublished)

	second, err := s.TogglePublish(ctx, created.ID, owner)
	assert.NoError(t, err)
	assert.False(t, second.IsPublished)

	// a stranger may not toggle
	strangerID, err := setupTestAuthor(db, "stranger@example.com")
	assert.NoError(t, err)

	_, err = s.TogglePublish(ctx, created.ID, &authservice.Identity{AuthorID: strangerID})
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = s.TogglePublish(ctx, uuid.New(), owner)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteBlogCascade(t *testing.T) {
	s, uploader, db, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example.com/x.png", nil)

	created, err := s.CreateBlog(ctx, validCreateRequest(authorID))
	assert.NoError(t, err)

	for _, name := range []string{"Bob", "Alice"} {
		_, err := db.Exec("INSERT INTO comments (blog_id, name, content) VALUES ($1, $2, $3)", created.ID, name, "Nice!")
		assert.NoError(t, err)
	}

	owner := &authservice.Identity{AuthorID: authorID}

	// a stranger may not delete
	strangerID, err := setupTestAuthor(db, "stranger@example.com")
	assert.NoError(t, err)
	err = s.DeleteBlog(ctx, created.ID, &authservice.Identity{AuthorID: strangerID})
	assert.ErrorIs(t, err, ErrNotPermitted)

	err = s.DeleteBlog(ctx, created.ID, owner)
	assert.NoError(t, err)

	assert.Equal(t, 0, countRows(t, db, "blogs"))
	assert.Equal(t, 0, countRows(t, db, "comments"))

	err = s.DeleteBlog(ctx, created.ID, owner)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDashboard(t *testing.T) {
	s, uploader, _, authorID := setupTestEnvironment(t)
	ctx := context.Background()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://img.example.com/x.png", nil)

	req := validCreateRequest(authorID)
	req.IsPublished = true
	_, err := s.CreateBlog(ctx, req)
	assert.NoError(t, err)

	_, err = s.CreateBlog(ctx, validCreateRequest(authorID))
	assert.NoError(t, err)

	stats, err := s.Dashboard(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Blogs)
	assert.Equal(t, 1, stats.Drafts)
	assert.Equal(t, 7, stats.Comments)
	assert.Len(t, stats.RecentBlogs, 2)
}
