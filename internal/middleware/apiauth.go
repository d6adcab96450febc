// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/response"
)

const userKey contextKey = "user"

// TOTPHeaderName carries the current one-time code for Basic credentials of
// accounts with two-factor authentication enabled.
const TOTPHeaderName = "X-TOTP-Code"

// Principals resolves API credentials to users.
type Principals interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// APIAuth resolves the caller from HTTP Basic credentials (email and
// password) or a bearer token and stores the user in the context. Requests
// without credentials pass through anonymously; bad credentials are
// rejected with 401. Basic credentials of a 2FA account also need a valid
// code in TOTPHeaderName.
func APIAuth(users Principals, tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := principal(r, users, tokens)
			if err != nil {
				response.Error(w, r, err)
				return
			}
			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principal(r *http.Request, users Principals, tokens *auth.TokenService) (*models.User, error) {
	if email, password, ok := r.BasicAuth(); ok {
		user, err := users.Authenticate(r.Context(), email, password)
		if err != nil || user == nil {
			return nil, err
		}
		if user.HasTwoFactor() && !auth.ValidateTOTP(r.Header.Get(TOTPHeaderName), *user.TOTPSecret) {
			return nil, apperr.Unauthorized("two-factor code required")
		}
		return user, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokens == nil {
		return nil, apperr.Unauthorized("unsupported authorization scheme")
	}

	claims, err := tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	user, err := users.UserByID(r.Context(), id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	return user, err
}

// RequireUser rejects anonymous API requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			response.Error(w, r, apperr.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects callers whose role is not name. Anonymous callers
// get 401 and authenticated ones 403.
func RequireRole(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil {
				response.Error(w, r, apperr.Unauthorized("authentication required"))
				return
			}
			if user.RoleName() != name {
				response.Error(w, r, apperr.Forbidden("requires role "+name))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a context carrying the authenticated API user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromCtx returns the authenticated API user, or nil.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
