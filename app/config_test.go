package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tempFile, err := os.CreateTemp("", "config-*.env")
	if err != nil {
		t.Fatalf("Failed to create temporary config file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	configData := []byte(`
PORT=:8080
ENVIRONMENT=development
VERSION=1.0.0
POSTGRES_HOST=localhost
POSTGRES_PORT=5432
POSTGRES_USER=testuser
POSTGRES_PASSWORD=testpassword
POSTGRES_DB=testdb
MAIL_HOST=smtp.example.com
MAIL_PORT=587
MAIL_USER=testuser@example.com
MAIL_PASSWORD=testpassword
MAIL_SENDER=sender@example.com
RABBITMQ_HOST=rabbitmq.example.com
RABBITMQ_PORT=5672
RABBITMQ_USER=testuser
RABBITMQ_PASSWORD=testpassword
JWT_SECRET=supersecret
JWT_TOKEN_TTL=24h
S3_REGION=us-east-1
S3_BUCKET=quillpress-media
S3_ACCESS_KEY=accesskey
S3_SECRET_KEY=secretkey
S3_PUBLIC_BASE_URL=https://cdn.example.com
DRAFT_ENDPOINT=https://drafts.example.com/generate
DRAFT_API_KEY=draftkey
COMMENT_RATE_RPS=2
COMMENT_RATE_BURST=4
`)
	if _, err := tempFile.Write(configData); err != nil {
		t.Fatalf("Failed to write test configuration to temporary file: %v", err)
	}

	config, err := loadConfig(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, ":8080", config.Port)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "1.0.0", config.Version)
	assert.Equal(t, "localhost", config.DBHost)
	assert.Equal(t, "testuser", config.DBUser)
	assert.Equal(t, "testpassword", config.DBPassword)
	assert.Equal(t, "testdb", config.DBName)
	assert.Equal(t, "smtp.example.com", config.MailHost)
	assert.Equal(t, 587, config.MailPort)
	assert.Equal(t, "testuser@example.com", config.MailUser)
	assert.Equal(t, "testpassword", config.MailPassword)
	assert.Equal(t, "sender@example.com", config.MailSender)
	assert.Equal(t, "rabbitmq.example.com", config.MQHost)
	assert.Equal(t, "testuser", config.MQUser)
	assert.Equal(t, "testpassword", config.MQPassword)
	assert.Equal(t, "supersecret", config.JWTSecret)
	assert.Equal(t, 24*time.Hour, config.JWTTokenTTL)
	assert.Equal(t, "quillpress-media", config.S3Bucket)
	assert.Equal(t, "https://cdn.example.com", config.S3PublicBaseURL)
	assert.Equal(t, "https://drafts.example.com/generate", config.DraftEndpoint)
	assert.Equal(t, "draftkey", config.DraftAPIKey)
	assert.Equal(t, float64(2), config.CommentRateRPS)
	assert.Equal(t, 4, config.CommentRateBurst)
}
