package authservice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestService(ttl time.Duration) *AuthService {
	return &AuthService{
		m:        nil,
		secret:   []byte("test-secret"),
		tokenTTL: ttl,
	}
}

func testAuthor() *Author {
	return &Author{
		ID:    uuid.New(),
		Name:  "Test Author",
		Email: "author@example.com",
	}
}

func TestVerifyToken(t *testing.T) {
	s := newTestService(24 * time.Hour)
	author := testAuthor()

	token, err := mintToken(s.secret, author, s.tokenTTL)
	assert.NoError(t, err)

	identity, err := s.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, author.ID, identity.AuthorID)
	assert.Equal(t, author.Email, identity.Email)
}

func TestVerifyTokenMissing(t *testing.T) {
	s := newTestService(24 * time.Hour)

	identity, err := s.VerifyToken("")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyTokenMalformed(t *testing.T) {
	s := newTestService(24 * time.Hour)

	identity, err := s.VerifyToken("not.a.jwt")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	s := newTestService(-1 * time.Minute)

	token, err := mintToken(s.secret, testAuthor(), s.tokenTTL)
	assert.NoError(t, err)

	identity, err := s.VerifyToken(token)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	s := newTestService(24 * time.Hour)

	token, err := mintToken([]byte("another-secret"), testAuthor(), time.Hour)
	assert.NoError(t, err)

	identity, err := s.VerifyToken(token)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdentityFromHeader(t *testing.T) {
	s := newTestService(24 * time.Hour)
	author := testAuthor()

	token, err := mintToken(s.secret, author, s.tokenTTL)
	assert.NoError(t, err)

	testCases := []struct {
		name      string
		header    string
		anonymous bool
	}{
		{name: "valid bearer token", header: "Bearer " + token, anonymous: false},
		{name: "missing header", header: "", anonymous: true},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz", anonymous: true},
		{name: "broken token degrades to anonymous", header: "Bearer garbage", anonymous: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			identity := s.IdentityFromHeader(tc.header)
			assert.Equal(t, tc.anonymous, identity.IsAnonymous())

			if !tc.anonymous {
				assert.Equal(t, author.ID, identity.AuthorID)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearerToken("Bearer abc"))
	assert.Equal(t, "", ExtractBearerToken("abc"))
	assert.Equal(t, "", ExtractBearerToken(""))
	assert.Equal(t, "", ExtractBearerToken("Bearer abc def"))
}
