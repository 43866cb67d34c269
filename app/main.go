package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
	"github.com/elmwoodlabs/quillpress/internal/blogservice"
	"github.com/elmwoodlabs/quillpress/internal/commentservice"
	"github.com/elmwoodlabs/quillpress/internal/common"
	"github.com/elmwoodlabs/quillpress/internal/draftservice"
	"github.com/elmwoodlabs/quillpress/internal/mailservice"
	"github.com/elmwoodlabs/quillpress/internal/mediaservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	authService    *authservice.AuthService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	draftService   draftservice.Generator
	mailService    *mailservice.MailService
	broker         *common.MessageBroker

	// quit closes when the application shuts down and stops background
	// goroutines owned by the middleware.
	quit chan struct{}
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Initialize the message broker
	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	// Setup the exchange, queue, and binding key for comment events
	err = common.SetupCommentExchange(broker)
	if err != nil {
		logger.Error("failed to setup the comment exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the image store
	uploader, err := mediaservice.NewS3Uploader(mediaservice.Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Endpoint:        cfg.S3Endpoint,
		UsePathStyle:    cfg.S3UsePathStyle,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize the image store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	// Initialize the services
	app := &application{
		config:         cfg,
		logger:         logger,
		authService:    authservice.NewAuthService(db, cfg.JWTSecret, cfg.JWTTokenTTL),
		blogService:    blogservice.NewBlogService(db, uploader, cache),
		commentService: commentservice.NewCommentService(db, broker, cache, logger),
		draftService:   draftservice.NewHTTPGenerator(cfg.DraftEndpoint, cfg.DraftAPIKey),
		mailService:    mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:         broker,
		quit:           make(chan struct{}),
	}
	defer close(app.quit)

	// Initialize the consumer
	app.mailService.SendModerationEmail()
	defer app.mailService.Close()

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
