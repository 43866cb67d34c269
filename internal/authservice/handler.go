package authservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/elmwoodlabs/quillpress/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid email or password")
)

func NewAuthService(db *sql.DB, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		m:        newAuthorModel(db),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Signup creates a new author account and returns a signed bearer token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*string, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	a := Author{
		Name:  name,
		Email: email,
	}

	err := a.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertAuthor(ctx, &a)
	if err != nil {
		return nil, err
	}

	token, err := mintToken(s.secret, &a, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// Login verifies the credential and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*string, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	author, err := s.m.getAuthorByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := author.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := mintToken(s.secret, author, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// VerifyToken resolves a bearer token to an Identity. This is the strict
// mode: a blank token fails with ErrMissingToken and a broken or expired one
// with ErrInvalidToken.
func (s *AuthService) VerifyToken(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	return parseToken(s.secret, token)
}

// IdentityFromHeader resolves an Authorization header in optional mode: a
// missing or broken credential degrades to the anonymous identity instead of
// failing the request.
func (s *AuthService) IdentityFromHeader(header string) *Identity {
	token := ExtractBearerToken(header)
	if token == "" {
		return &AnonymousIdentity
	}

	identity, err := parseToken(s.secret, token)
	if err != nil {
		return &AnonymousIdentity
	}

	return identity
}

// ExtractBearerToken pulls the token out of an "Authorization: Bearer <token>"
// header value. It returns the empty string when the header does not carry a
// bearer credential.
func ExtractBearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
