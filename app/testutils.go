package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
	"github.com/elmwoodlabs/quillpress/internal/blogservice"
	"github.com/elmwoodlabs/quillpress/internal/commentservice"
	"github.com/elmwoodlabs/quillpress/internal/common"
	"github.com/elmwoodlabs/quillpress/internal/draftservice"
	"github.com/elmwoodlabs/quillpress/internal/mailservice"
	"github.com/elmwoodlabs/quillpress/internal/mediaservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	rabbitURI := common.TestRabbitMQ(t)
	rabbitmq, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupCommentExchange(rabbitmq)
	assert.NoError(t, err)

	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	uploader := new(mediaservice.MockUploader)
	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn.example.com/blogs/test.png", nil)

	generator := new(draftservice.MockGenerator)
	generator.On("GenerateDraft", mock.Anything, mock.Anything).Return("a generated draft", nil)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:         cfg,
		logger:         logger,
		authService:    authservice.NewAuthService(db, cfg.JWTSecret, cfg.JWTTokenTTL),
		blogService:    blogservice.NewBlogService(db, uploader, cache),
		commentService: commentservice.NewCommentService(db, rabbitmq, cache, logger),
		draftService:   generator,
		mailService:    mailservice.NewMailService(rabbitmq, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:         rabbitmq,
		quit:           make(chan struct{}),
	}

	t.Cleanup(func() { close(app.quit) })

	return app, db
}

func (ts *testServer) post(t *testing.T, path string, data any, token *string) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

// postBlogForm submits the multipart shape the create blog endpoint expects:
// a "blog" JSON part and an "image" file part.
func (ts *testServer) postBlogForm(t *testing.T, path string, blog any, imageName string, image []byte, token *string) (int, http.Header, envelope) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	blogJSON, err := json.Marshal(blog)
	if err != nil {
		t.Fatal(err)
	}

	err = mw.WriteField("blog", string(blogJSON))
	if err != nil {
		t.Fatal(err)
	}

	fw, err := mw.CreateFormFile("image", imageName)
	if err != nil {
		t.Fatal(err)
	}
	_, err = fw.Write(image)
	if err != nil {
		t.Fatal(err)
	}

	err = mw.Close()
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}
