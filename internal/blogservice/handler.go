package blogservice

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
	"github.com/elmwoodlabs/quillpress/internal/common"
	"github.com/elmwoodlabs/quillpress/internal/mediaservice"
)

func NewBlogService(db *sql.DB, uploader mediaservice.Uploader, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), uploader: uploader, c: c}
}

// CreateBlog validates the submission, stores the image through the media
// uploader, and persists the blog. A failed upload leaves no blog behind.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateDescription(v, req.Description)
	validateCategory(v, req.Category)
	validateImage(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	imageURL, err := s.uploader.Upload(ctx, req.Image, req.ImageName)
	if err != nil {
		return nil, err
	}

	blog := &Blog{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    imageURL,
		AuthorID:    req.AuthorID,
		IsPublished: req.IsPublished,
	}

	err = s.m.insert(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPublishedBlogs())

	return blog, nil
}

// GetBlogs lists blogs newest-first, filtered by the visibility policy: an
// authenticated caller sees everything, an anonymous one only published
// blogs. The anonymous listing is served from cache when warm.
func (s *BlogService) GetBlogs(ctx context.Context, identity *authservice.Identity) ([]Blog, error) {
	publishedOnly := identity.IsAnonymous()

	if publishedOnly {
		if cached, ok := s.c.Get(common.CacheKeyPublishedBlogs()); ok {
			return cached.([]Blog), nil
		}
	}

	blogs, err := s.m.getBlogs(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}

	if publishedOnly {
		s.c.Set(common.CacheKeyPublishedBlogs(), blogs)
	}

	return blogs, nil
}

// GetBlogByID fetches one blog regardless of publish state or caller. The
// single fetch is deliberately not gated by the visibility policy so a
// freshly created draft can be previewed by its link.
func (s *BlogService) GetBlogByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	return s.m.getBlogById(ctx, id)
}

// DeleteBlog removes a blog and all of its comments. Only the owning author
// may delete; anyone else gets ErrNotPermitted.
func (s *BlogService) DeleteBlog(ctx context.Context, id uuid.UUID, identity *authservice.Identity) error {
	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return err
	}

	if blog.AuthorID != identity.AuthorID {
		return ErrNotPermitted
	}

	err = s.m.deleteBlogCascade(ctx, id)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPublishedBlogs())
	s.c.Delete(common.CacheKeyApprovedComments(id.String()))

	return nil
}

// TogglePublish flips the publish flag and returns the updated blog. The
// flip itself is a single atomic UPDATE; ownership is checked against the
// immutable author_id beforehand.
func (s *BlogService) TogglePublish(ctx context.Context, id uuid.UUID, identity *authservice.Identity) (*Blog, error) {
	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != identity.AuthorID {
		return nil, ErrNotPermitted
	}

	updated, err := s.m.togglePublish(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPublishedBlogs())

	return updated, nil
}

// Dashboard assembles the admin overview counts and recent blogs. The
// comment total is supplied by the caller since comments belong to the
// moderation service.
func (s *BlogService) Dashboard(ctx context.Context, commentCount int) (*DashboardStats, error) {
	total, drafts, err := s.m.countBlogs(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.m.recentBlogs(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Blogs:       total,
		Drafts:      drafts,
		Comments:    commentCount,
		RecentBlogs: recent,
	}, nil
}
