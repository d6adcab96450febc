// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/search"
	"folio/internal/service"
)

// newTestService returns a Service over a fresh in-memory SQLite database
// with the default roles seeded.
func newTestService(t *testing.T, opts service.Options) *service.Service {
	t.Helper()

	db, err := database.Connect(database.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, database.SQLite))
	require.NoError(t, database.SeedRoles(context.Background(), db))

	if opts.Index == nil {
		idx, err := search.Open("", nil)
		require.NoError(t, err)
		t.Cleanup(func() { idx.Close() })
		opts.Index = idx
	}
	return service.New(db, opts)
}

func mustRegister(t *testing.T, svc *service.Service, username, role string) *models.User {
	t.Helper()
	u, err := svc.RegisterUser(context.Background(), service.RegisterInput{
		Username: username,
		Email:    username + "@folio.local",
		Password: "secret",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

// call serves one request through a mux holding only pattern, acting as
// user when it is non-nil.
func call(t *testing.T, method, pattern, target string, h http.HandlerFunc, body any, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	mux := chi.NewRouter()
	mux.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}
