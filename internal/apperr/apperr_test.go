// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindMissingArgument, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindStore, http.StatusInternalServerError},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := Conflictf("username %q is already taken", "alice")

	if !errors.Is(err, ErrConflict) {
		t.Error("conflict error should match ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("conflict error should not match ErrNotFound")
	}

	wrapped := fmt.Errorf("create user: %w", err)
	if !errors.Is(wrapped, ErrConflict) {
		t.Error("wrapped conflict error should still match ErrConflict")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Conflictf("title taken").WithCause(cause)

	if got := err.Error(); got != "title taken: duplicate key" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestWithDetailsCopies(t *testing.T) {
	base := Validation("validation failed")
	detailed := base.WithDetails(map[string]string{"email": "is required"})

	if base.Details != nil {
		t.Error("WithDetails must not mutate the receiver")
	}
	if detailed.Details == nil {
		t.Error("details missing on copy")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"missing", MissingArgument("username"), KindMissingArgument},
		{"wrapped not found", fmt.Errorf("load: %w", NotFoundf("user %q", "bob")), KindNotFound},
		{"plain error", errors.New("boom"), KindStore},
		{"store", Store(errors.New("disk full")), KindStore},
		{"forbidden", Forbidden("admin users cannot be deleted"), KindForbidden},
		{"unauthorized", Unauthorized("invalid credentials"), KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingArgumentMessage(t *testing.T) {
	if got := MissingArgument("email").Error(); got != "missing argument: email" {
		t.Errorf("Error() = %q", got)
	}
}
