package authservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type AuthService struct {
	m        *DBModel
	secret   []byte
	tokenTTL time.Duration
}

type DBModel struct {
	db *sql.DB
}

type Author struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Identity is the resolved caller of an authenticated request. The zero
// value AnonymousIdentity stands for an unauthenticated caller.
type Identity struct {
	AuthorID uuid.UUID `json:"author_id"`
	Email    string    `json:"email"`
}

var AnonymousIdentity = Identity{}

func (i *Identity) IsAnonymous() bool {
	return i == &AnonymousIdentity
}
