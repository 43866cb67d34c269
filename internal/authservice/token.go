package authservice

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing authentication token")
	ErrInvalidToken = errors.New("invalid or expired authentication token")
)

// mintToken signs a bearer token carrying the author id as the subject claim
// and the configured expiry.
func mintToken(secret []byte, author *Author, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":   author.ID.String(),
		"email": author.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// parseToken validates the signature and expiry of a bearer token and
// resolves it to an Identity. Any failure is reported as ErrInvalidToken.
func parseToken(secret []byte, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	authorID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	identity := &Identity{AuthorID: authorID}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}

	return identity, nil
}
