package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
	"github.com/elmwoodlabs/quillpress/internal/blogservice"
	"github.com/elmwoodlabs/quillpress/internal/commentservice"
	"github.com/elmwoodlabs/quillpress/internal/common"
	"github.com/elmwoodlabs/quillpress/internal/draftservice"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	var input signupRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, err := app.authService.Signup(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "an author with this email address already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	token, err := app.authService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type createBlogRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublished bool   `json:"isPublished"`
}

// createBlogHandler accepts a multipart form with a "blog" JSON part and an
// "image" file part. The image is spooled to a temporary file that is removed
// before the handler returns, whatever path it exits through.
func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxImageSize)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input createBlogRequest

	err = json.Unmarshal([]byte(r.FormValue("blog")), &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("the blog part must contain valid JSON"))
		return
	}

	image, imageName, cleanup, err := app.spoolFormFile(r, "image")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	defer cleanup()

	identity := app.getIdentityContext(r)

	req := &blogservice.CreateBlogRequest{
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Category:    blogservice.Category(input.Category),
		Image:       image,
		ImageName:   imageName,
		IsPublished: input.IsPublished,
		AuthorID:    identity.AuthorID,
	}

	blog, err := app.blogService.CreateBlog(r.Context(), req)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrAuthorForeignKey):
			app.invalidAuthenticationTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getAllBlogsHandler(w http.ResponseWriter, r *http.Request) {
	identity := app.getIdentityContext(r)

	blogs, err := app.blogService.GetBlogs(r.Context(), identity)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "blogId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "blogId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	identity := app.getIdentityContext(r)

	err = app.blogService.DeleteBlog(r.Context(), id, identity)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrNotPermitted):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type togglePublishRequest struct {
	ID string `json:"id"`
}

func (app *application) togglePublishHandler(w http.ResponseWriter, r *http.Request) {
	var input togglePublishRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("invalid blog id"))
		return
	}

	identity := app.getIdentityContext(r)

	blog, err := app.blogService.TogglePublish(r.Context(), id, identity)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrNotPermitted):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type addCommentRequest struct {
	Blog    string `json:"blog"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input addCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	id, err := uuid.Parse(input.Blog)
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("invalid blog id"))
		return
	}

	comment, err := app.commentService.SubmitComment(r.Context(), id, input.Name, input.Content)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrBlogNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getCommentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "blogId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comments, err := app.commentService.GetApprovedComments(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type generateDraftRequest struct {
	Prompt string `json:"prompt"`
}

func (app *application) generateDraftHandler(w http.ResponseWriter, r *http.Request) {
	var input generateDraftRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Prompt) == "" {
		app.failedValidationErrorResponse(w, r, map[string]string{"prompt": "must be provided"})
		return
	}

	draft, err := app.draftService.GenerateDraft(r.Context(), input.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, draftservice.ErrGenerationFailed):
			app.badGatewayErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"draft": draft}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) adminCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.GetAllComments(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type commentActionRequest struct {
	ID string `json:"id"`
}

func (app *application) approveCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input commentActionRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("invalid comment id"))
		return
	}

	err = app.commentService.ApproveComment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment approved"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input commentActionRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("invalid comment id"))
		return
	}

	err = app.commentService.DeleteComment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commentservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	commentCount, err := app.commentService.CountComments(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	stats, err := app.blogService.Dashboard(r.Context(), commentCount)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"dashboard": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
