package main

import (
	"context"
	"net/http"

	"github.com/elmwoodlabs/quillpress/internal/authservice"
)

type contextKey string

const identityContextKey = contextKey("identity")

func (app *application) createIdentityContext(r *http.Request, identity *authservice.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, identity)
	return r.WithContext(ctx)
}

func (app *application) getIdentityContext(r *http.Request) *authservice.Identity {
	identity, ok := r.Context().Value(identityContextKey).(*authservice.Identity)
	if !ok {
		return &authservice.AnonymousIdentity
	}
	return identity
}
