package blogservice

import "github.com/elmwoodlabs/quillpress/internal/authservice"

// Visible reports whether a blog appears in a listing for the given caller.
// Any authenticated caller sees every blog, published or not; anonymous
// callers see only published ones. Authentication, not ownership, gates
// unpublished content here. Single-blog fetch is intentionally not gated by
// this predicate.
func Visible(blog *Blog, identity *authservice.Identity) bool {
	if !identity.IsAnonymous() {
		return true
	}

	return blog.IsPublished
}
