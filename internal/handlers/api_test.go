// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/auth"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/projection"
	"folio/internal/service"
)

func TestRegister(t *testing.T) {
	api := NewAPI(newTestService(t, service.Options{}), nil)

	rec := call(t, http.MethodPost, "/api/register/", "/api/register/", api.Register,
		map[string]string{"username": "alice", "email": "alice@folio.local", "password": "pw"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"username":"alice","email":"alice@folio.local","role":{"name":"user","categories":""},"posts":[],"categories":""}`, rec.Body.String())

	rec = call(t, http.MethodPost, "/api/register/", "/api/register/", api.Register,
		map[string]string{"username": "alice", "email": "other@folio.local", "password": "pw"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[errorBody](t, rec).Error.Code)

	rec = call(t, http.MethodPost, "/api/register/", "/api/register/", api.Register,
		map[string]string{"username": "bob", "password": "pw"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "MISSING_ARGUMENT", body.Error.Code)
	assert.Contains(t, body.Error.Details, "email")

	rec = call(t, http.MethodPost, "/api/register/", "/api/register/", api.Register, `{"username":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", decode[errorBody](t, rec).Error.Code)
}

func TestLoadUser(t *testing.T) {
	svc := newTestService(t, service.Options{})
	mustRegister(t, svc, "alice", "")
	api := NewAPI(svc, nil)

	rec := call(t, http.MethodGet, "/api/load_user/", "/api/load_user/?username=alice", api.LoadUser, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[projection.User](t, rec).Username)

	rec = call(t, http.MethodPost, "/api/load_user/", "/api/load_user/", api.LoadUser, map[string]string{"username": "alice"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, http.MethodGet, "/api/load_user/", "/api/load_user/?username=ghost", api.LoadUser, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, http.MethodGet, "/api/load_user/", "/api/load_user/", api.LoadUser, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGreetAndUsernames(t *testing.T) {
	svc := newTestService(t, service.Options{})
	alice := mustRegister(t, svc, "alice", "")
	mustRegister(t, svc, "bob", "")
	api := NewAPI(svc, nil)

	rec := call(t, http.MethodGet, "/api/test", "/api/test", api.Greet, nil, alice)
	assert.JSONEq(t, `{"data":"Hello, alice"}`, rec.Body.String())

	rec = call(t, http.MethodGet, "/api/usernames/", "/api/usernames/", api.Usernames, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []string{"alice", "bob"}, decode[[]string](t, rec))
}

func TestIssueToken(t *testing.T) {
	svc := newTestService(t, service.Options{})
	alice := mustRegister(t, svc, "alice", "")
	tokens := auth.NewEphemeralTokenService(time.Hour)
	api := NewAPI(svc, tokens)

	rec := call(t, http.MethodPost, "/api/tokens/", "/api/tokens/", api.IssueToken, nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decode[tokenResponse](t, rec)
	claims, err := tokens.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID.String(), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, time.Minute)

	rec = call(t, http.MethodPost, "/api/tokens/", "/api/tokens/", NewAPI(svc, nil).IssueToken, nil, alice)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserAdministration(t *testing.T) {
	svc := newTestService(t, service.Options{})
	root := mustRegister(t, svc, "root", models.RoleAdmin)
	mustRegister(t, svc, "alice", "")
	api := NewAPI(svc, nil)

	rec := call(t, http.MethodGet, "/api/users/", "/api/users/", api.ListUsers, nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]projection.User](t, rec), 2)

	rec = call(t, http.MethodPut, "/api/users/{username}", "/api/users/alice", api.EditUser,
		map[string]string{"username": "alicia", "role": "moderator"}, root)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decode[map[string]any](t, rec)
	assert.Equal(t, "alicia", edited["username"])
	assert.Equal(t, map[string]any{"name": "moderator", "categories": ""}, edited["role"])

	rec = call(t, http.MethodPut, "/api/users/{username}", "/api/users/alicia", api.EditUser,
		map[string]string{"email": "root@folio.local"}, root)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, http.MethodDelete, "/api/users/{username}", "/api/users/root", api.DeleteUser, nil, root)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, http.MethodDelete, "/api/users/{username}", "/api/users/alicia", api.DeleteUser, nil, root)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, http.MethodDelete, "/api/users/{username}", "/api/users/alicia", api.DeleteUser, nil, root)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoles(t *testing.T) {
	svc := newTestService(t, service.Options{})
	api := NewAPI(svc, nil)

	rec := call(t, http.MethodGet, "/api/roles/", "/api/roles/", api.ListRoles, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]projection.Role](t, rec), 3)

	rec = call(t, http.MethodPost, "/api/roles/", "/api/roles/", api.CreateRole, map[string]any{"name": "editor", "default": true}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"name":"editor","categories":""}`, rec.Body.String())

	// The new default replaces the seeded one.
	u := mustRegister(t, svc, "carol", "")
	assert.Equal(t, "editor", u.RoleName())

	rec = call(t, http.MethodPost, "/api/roles/", "/api/roles/", api.CreateRole, map[string]any{"name": "editor"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, http.MethodPut, "/api/roles/{name}", "/api/roles/editor", api.EditRole, map[string]any{"name": "writer"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, http.MethodDelete, "/api/roles/{name}", "/api/roles/admin", api.DeleteRole, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, http.MethodDelete, "/api/roles/{name}", "/api/roles/writer", api.DeleteRole, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPosts(t *testing.T) {
	svc := newTestService(t, service.Options{})
	root := mustRegister(t, svc, "root", models.RoleAdmin)
	mod := mustRegister(t, svc, "mod", models.RoleModerator)
	api := NewAPI(svc, nil)

	rec := call(t, http.MethodPost, "/api/new_post/", "/api/new_post/", api.CreatePost,
		map[string]string{"title": "Hello World", "body": "Go is fun"}, root)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[projection.Post](t, rec)
	assert.Equal(t, "hello-world", created.Slug)
	require.NotNil(t, created.Author)
	assert.Equal(t, "root", *created.Author)
	assert.Equal(t, "", created.Moderator)
	assert.Equal(t, "", created.DateModified)

	rec = call(t, http.MethodPost, "/api/new_post/", "/api/new_post/", api.CreatePost,
		map[string]string{"title": "Hello World", "body": "again"}, root)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, http.MethodPost, "/api/new_post/", "/api/new_post/", api.CreatePost,
		map[string]string{"body": "untitled"}, root)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_ARGUMENT", decode[errorBody](t, rec).Error.Code)

	rec = call(t, http.MethodPost, "/api/edit_post/{slug}", "/api/edit_post/hello-world", api.EditPost,
		map[string]string{"title": "Hello Gophers", "body": "Go is still fun"}, mod)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decode[projection.Post](t, rec)
	assert.Equal(t, "hello-gophers", edited.Slug)
	assert.Equal(t, "mod", edited.Moderator)
	assert.NotEmpty(t, edited.DateModified)

	rec = call(t, http.MethodGet, "/api/posts/", "/api/posts/", api.ListPosts, nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]projection.Post](t, rec), 1)

	rec = call(t, http.MethodGet, "/api/posts/search", "/api/posts/search?q=gophers", api.SearchPosts, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decode[[]projection.Post](t, rec)
	require.Len(t, hits, 1)
	assert.Equal(t, "hello-gophers", hits[0].Slug)

	rec = call(t, http.MethodGet, "/api/posts/search", "/api/posts/search?q=gophers&limit=0", api.SearchPosts, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, http.MethodGet, "/api/posts/search", "/api/posts/search", api.SearchPosts, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, http.MethodGet, "/api/posts/{slug}", "/api/posts/hello-gophers", api.GetPost, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, http.MethodDelete, "/api/posts/{slug}", "/api/posts/hello-gophers", api.DeletePost, nil, root)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, http.MethodGet, "/api/posts/{slug}", "/api/posts/hello-gophers", api.GetPost, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type memImages struct{ uploaded map[string][]byte }

func (m *memImages) UploadImage(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.uploaded[key] = data
	return "https://img.folio.local/" + key, nil
}

func (m *memImages) DeleteImage(context.Context, string) error { return nil }

func TestUploadPostImage(t *testing.T) {
	images := &memImages{uploaded: map[string][]byte{}}
	svc := newTestService(t, service.Options{Images: images})
	root := mustRegister(t, svc, "root", models.RoleAdmin)
	_, err := svc.CreatePost(context.Background(), root, service.PostInput{Title: "Cover", Body: "b"})
	require.NoError(t, err)
	api := NewAPI(svc, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="cover.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	mux := chi.NewRouter()
	mux.Put("/api/posts/{slug}/image", api.UploadPostImage)
	req := httptest.NewRequest(http.MethodPut, "/api/posts/cover/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(middleware.WithUser(req.Context(), root))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post := decode[projection.Post](t, rec)
	assert.Contains(t, post.Image, "https://img.folio.local/")
	assert.Equal(t, "root", post.Moderator)
	assert.Len(t, images.uploaded, 1)

	rec = call(t, http.MethodPut, "/api/posts/{slug}/image", "/api/posts/cover/image", api.UploadPostImage, "not multipart", root)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategories(t *testing.T) {
	svc := newTestService(t, service.Options{})
	api := NewAPI(svc, nil)

	create := func(name string, priority int) projection.Category {
		rec := call(t, http.MethodPost, "/api/categories/", "/api/categories/", api.CreateCategory,
			map[string]any{"display_name": name, "priority": priority}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[projection.Category](t, rec)
	}
	create("Tech", 50)
	create("Rust", 100)
	create("Go", 10)

	rec := call(t, http.MethodPost, "/api/categories/", "/api/categories/", api.CreateCategory,
		map[string]any{"display_name": "Go"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, http.MethodPost, "/api/categories/{id}/children/{child}", "/api/categories/Tech/children/Rust", api.AddChild, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Rust"}, decode[projection.Category](t, rec).Children)

	rec = call(t, http.MethodPost, "/api/categories/{id}/children/{child}", "/api/categories/Rust/children/Tech", api.AddChild, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "cycles are rejected")

	rec = call(t, http.MethodPost, "/api/categories/{id}/children/{child}", "/api/categories/Tech/children/Missing", api.AddChild, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, http.MethodGet, "/api/categories/{id}", "/api/categories/Rust", api.GetCategory, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"priority":100,"display_name":"Rust","custom_template":false,"custom_template_url":"","children":[],"parents":["Tech"]}`, rec.Body.String())

	rec = call(t, http.MethodGet, "/api/categories/{id}/parents", "/api/categories/Rust/parents", api.Parents, nil, nil)
	assert.Equal(t, []string{"Tech"}, names(decode[[]projection.Category](t, rec)))

	rec = call(t, http.MethodGet, "/api/categories/{id}/children", "/api/categories/Tech/children", api.Children, nil, nil)
	assert.Equal(t, []string{"Rust"}, names(decode[[]projection.Category](t, rec)))

	rec = call(t, http.MethodGet, "/api/categories/roots", "/api/categories/roots", api.Roots, nil, nil)
	assert.Equal(t, []string{"Tech", "Go"}, names(decode[[]projection.Category](t, rec)))

	rec = call(t, http.MethodGet, "/api/categories/", "/api/categories/", api.Navbar, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Go", "Tech", "Rust"}, names(decode[[]projection.Category](t, rec)))

	rec = call(t, http.MethodPut, "/api/categories/{id}", "/api/categories/Go", api.EditCategory,
		map[string]any{"display_name": "Golang", "priority": 200}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 200, decode[projection.Category](t, rec).Priority)

	rec = call(t, http.MethodGet, "/api/categories/", "/api/categories/", api.Navbar, nil, nil)
	assert.Equal(t, []string{"Tech", "Rust", "Golang"}, names(decode[[]projection.Category](t, rec)))

	rec = call(t, http.MethodDelete, "/api/categories/{id}/children/{child}", "/api/categories/Tech/children/Rust", api.RemoveChild, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[projection.Category](t, rec).Children)

	rec = call(t, http.MethodDelete, "/api/categories/{id}", "/api/categories/Golang", api.DeleteCategory, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func names(cs []projection.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.DisplayName)
	}
	return out
}

func TestPathParamsAreUnescaped(t *testing.T) {
	svc := newTestService(t, service.Options{})
	api := NewAPI(svc, nil)
	ctx := context.Background()

	for _, name := range []string{"C/C++", "Data Science", "100%", "50%/off"} {
		_, err := svc.CreateCategory(ctx, service.CategoryInput{DisplayName: name})
		require.NoError(t, err)
	}

	tests := []struct {
		target string
		want   string
	}{
		{"/api/categories/C%2FC++", "C/C++"},
		{"/api/categories/Data%20Science", "Data Science"},
		{"/api/categories/100%25", "100%"},
		{"/api/categories/50%25%2Foff", "50%/off"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rec := call(t, http.MethodGet, "/api/categories/{id}", tt.target, api.GetCategory, nil, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decode[projection.Category](t, rec).DisplayName)
		})
	}

	_, err := svc.CreateTag(ctx, service.NameInput{Name: "ci/cd"})
	require.NoError(t, err)
	rec := call(t, http.MethodDelete, "/api/tags/{name}", "/api/tags/ci%2Fcd", api.DeleteTag, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestPermissionsAndTags(t *testing.T) {
	api := NewAPI(newTestService(t, service.Options{}), nil)

	rec := call(t, http.MethodPost, "/api/tags/", "/api/tags/", api.CreateTag, map[string]string{"name": "golang"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"name":"golang"}`, rec.Body.String())

	rec = call(t, http.MethodPost, "/api/tags/", "/api/tags/", api.CreateTag, map[string]string{"name": "golang"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, http.MethodGet, "/api/tags/", "/api/tags/", api.ListTags, nil, nil)
	assert.JSONEq(t, `[{"name":"golang"}]`, rec.Body.String())

	rec = call(t, http.MethodPost, "/api/permissions/", "/api/permissions/", api.CreatePermission, map[string]string{"name": "write"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, http.MethodGet, "/api/permissions/", "/api/permissions/", api.ListPermissions, nil, nil)
	assert.JSONEq(t, `[{"name":"write"}]`, rec.Body.String())

	rec = call(t, http.MethodDelete, "/api/permissions/{name}", "/api/permissions/write", api.DeletePermission, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, http.MethodDelete, "/api/tags/{name}", "/api/tags/golang", api.DeleteTag, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, http.MethodGet, "/api/tags/", "/api/tags/", api.ListTags, nil, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
