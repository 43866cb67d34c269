package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	// auth service
	router.HandlerFunc(http.MethodPost, "/api/auth/signup", app.signupHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginHandler)

	// blog service. httprouter refuses static children next to a wildcard in
	// the same subtree, so each method registers one catch-all and the
	// reserved segments are dispatched before a segment is read as a blog id.
	router.HandlerFunc(http.MethodGet, "/api/blog/*path", app.blogGetDispatch())
	router.HandlerFunc(http.MethodPost, "/api/blog/*path", app.blogPostDispatch())

	// moderation
	router.HandlerFunc(http.MethodGet, "/api/admin/comments", app.requireAuthUser(app.adminCommentsHandler))
	router.HandlerFunc(http.MethodPost, "/api/admin/approve-comment", app.requireAuthUser(app.approveCommentHandler))
	router.HandlerFunc(http.MethodPost, "/api/admin/delete-comment", app.requireAuthUser(app.deleteCommentHandler))
	router.HandlerFunc(http.MethodGet, "/api/admin/dashboard", app.requireAuthUser(app.dashboardHandler))

	router.HandlerFunc(http.MethodGet, "/api/health", app.healthCheckHandler)

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}

// withBlogIdParam re-injects a path segment as the blogId route parameter so
// the dispatched handlers keep reading it through readUUIDParam.
func (app *application) withBlogIdParam(r *http.Request, id string) *http.Request {
	params := httprouter.Params{{Key: "blogId", Value: id}}
	return r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, params))
}

func (app *application) blogGetDispatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(httprouter.ParamsFromContext(r.Context()).ByName("path"), "/")
		segments := strings.Split(path, "/")

		switch {
		case path == "all":
			app.getAllBlogsHandler(w, r)
		case len(segments) == 2 && segments[0] == "comments":
			app.getCommentsHandler(w, app.withBlogIdParam(r, segments[1]))
		case len(segments) == 1 && path != "":
			app.getBlogHandler(w, app.withBlogIdParam(r, path))
		default:
			app.notFoundErrorResponse(w, r)
		}
	}
}

func (app *application) blogPostDispatch() http.HandlerFunc {
	// The rate limiter carries per-IP state, so it is built once here rather
	// than per request.
	createBlog := app.requireAuthUser(app.createBlogHandler)
	togglePublish := app.requireAuthUser(app.togglePublishHandler)
	addComment := app.rateLimitComments(app.addCommentHandler)
	generateDraft := app.requireAuthUser(app.generateDraftHandler)
	deleteBlog := app.requireAuthUser(app.deleteBlogHandler)

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(httprouter.ParamsFromContext(r.Context()).ByName("path"), "/")

		switch path {
		case "add":
			createBlog(w, r)
		case "toggle-publish":
			togglePublish(w, r)
		case "add-comment":
			addComment(w, r)
		case "generate":
			generateDraft(w, r)
		default:
			if path == "" || strings.Contains(path, "/") {
				app.notFoundErrorResponse(w, r)
				return
			}
			deleteBlog(w, app.withBlogIdParam(r, path))
		}
	}
}
