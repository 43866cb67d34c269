package blogservice

import (
	"database/sql"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/elmwoodlabs/quillpress/internal/common"
	"github.com/elmwoodlabs/quillpress/internal/mediaservice"
)

type Category string

const (
	CategoryStartup    Category = "Startup"
	CategoryTechnology Category = "Technology"
	CategoryLifestyle  Category = "Lifestyle"
	CategoryFinance    Category = "Finance"
)

var Categories = []Category{CategoryStartup, CategoryTechnology, CategoryLifestyle, CategoryFinance}

type Blog struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	// Subtitle is optional and stored as an empty string when absent.
	Subtitle string `json:"subtitle"`
	// Description is the rich-text body. It is stored as submitted;
	// sanitization happens at render time, never at rest.
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"image"`
	AuthorID    uuid.UUID `json:"author_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m        *BlogModel
	uploader mediaservice.Uploader
	c        *common.Cache
}

type CreateBlogRequest struct {
	Title       string
	Subtitle    string
	Description string
	Category    Category
	Image       io.Reader
	ImageName   string
	IsPublished bool
	AuthorID    uuid.UUID
}

// DashboardStats is the admin overview: totals plus the most recent blogs.
type DashboardStats struct {
	Blogs       int    `json:"blogs"`
	Drafts      int    `json:"drafts"`
	Comments    int    `json:"comments"`
	RecentBlogs []Blog `json:"recent_blogs"`
}
