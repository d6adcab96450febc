// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"folio/internal/session"

	"github.com/google/uuid"
)

// newTestSession creates a session.Data value suitable for testing.
// It populates every field so assertions can check them.
func newTestSession(role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    uuid.New(),
		Username:  "tester",
		Email:     "test@folio.local",
		Role:      role,
		TwoFADone: twoFADone,
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses. This allows tests to simulate
// the state after LoadSession has run without needing a real Valkey store.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// ---------- SessionFromCtx ----------

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession("admin", true)
		ctx := ctxWithSession(context.Background(), sess)

		got := SessionFromCtx(ctx)
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Email != sess.Email {
			t.Errorf("Email: got %q, want %q", got.Email, sess.Email)
		}
		if got.Role != sess.Role {
			t.Errorf("Role: got %q, want %q", got.Role, sess.Role)
		}
		if got.TwoFADone != sess.TwoFADone {
			t.Errorf("TwoFADone: got %v, want %v", got.TwoFADone, sess.TwoFADone)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		got := SessionFromCtx(context.Background())
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		got := SessionFromCtx(ctx)
		if got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

// ---------- LoadSession ----------

func TestLoadSessionWithoutStore(t *testing.T) {
	var gotSession *session.Data
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/account", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "abc"})
	rr := httptest.NewRecorder()
	LoadSession(nil)(inner).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if gotSession != nil {
		t.Errorf("expected nil session, got %+v", gotSession)
	}
}

// ---------- RequireAuth ----------

func TestRequireAuth(t *testing.T) {
	t.Run("redirects to login when no session", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/auth/account", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if *called {
			t.Error("next handler should NOT have been called")
		}
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusSeeOther)
		}
		loc := rr.Header().Get("Location")
		if loc != "/auth/login" {
			t.Errorf("redirect location: got %q, want %q", loc, "/auth/login")
		}
	})

	t.Run("passes through when session exists", func(t *testing.T) {
		sess := newTestSession("moderator", true)
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/auth/account", nil)
		req = req.WithContext(ctxWithSession(req.Context(), sess))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})

	t.Run("redirects for any role when session is nil", func(t *testing.T) {
		inner, _ := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/auth/account", nil)
		// Explicitly set context with nil session (wrong type).
		req = req.WithContext(context.WithValue(req.Context(), SessionKey, "invalid"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusSeeOther {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusSeeOther)
		}
	})
}

// ---------- Require2FA ----------

func TestRequire2FA(t *testing.T) {
	tests := []struct {
		name           string
		session        *session.Data
		wantCode       int
		wantLocation   string
		wantNextCalled bool
	}{
		{
			name:           "redirects to 2FA verification when TwoFADone is false",
			session:        newTestSession("admin", false),
			wantCode:       http.StatusSeeOther,
			wantLocation:   "/auth/2fa/verify",
			wantNextCalled: false,
		},
		{
			name:           "passes through when TwoFADone is true",
			session:        newTestSession("admin", true),
			wantCode:       http.StatusOK,
			wantLocation:   "",
			wantNextCalled: true,
		},
		{
			name:           "passes through when session is nil (RequireAuth should catch this first)",
			session:        nil,
			wantCode:       http.StatusOK,
			wantLocation:   "",
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := Require2FA(inner)

			req := httptest.NewRequest(http.MethodGet, "/auth/account", nil)
			if tt.session != nil {
				req = req.WithContext(ctxWithSession(req.Context(), tt.session))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if *called != tt.wantNextCalled {
				t.Errorf("next handler called: got %v, want %v", *called, tt.wantNextCalled)
			}
			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				loc := rr.Header().Get("Location")
				if loc != tt.wantLocation {
					t.Errorf("redirect location: got %q, want %q", loc, tt.wantLocation)
				}
			}
		})
	}
}
