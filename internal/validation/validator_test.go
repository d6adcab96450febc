// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/apperr"
	"folio/internal/validation"
)

type signup struct {
	Username string `json:"username" validate:"required,min=1,max=64,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
}

func TestValidateSuccess(t *testing.T) {
	v := validation.New()
	err := v.Validate(signup{Username: "alice_1.x", Email: "alice@example.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestValidateMissingField(t *testing.T) {
	v := validation.New()
	err := v.Validate(signup{Username: "alice", Password: "pw"})
	require.Error(t, err)

	assert.Equal(t, apperr.KindMissingArgument, apperr.KindOf(err))

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "missing argument: email", appErr.Message)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["email"])
}

func TestValidateFormatErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		req   signup
		field string
	}{
		{"bad email", signup{Username: "alice", Email: "nope", Password: "pw"}, "email"},
		{"username starts with digit", signup{Username: "1alice", Email: "a@b.co", Password: "pw"}, "username"},
		{"username with dash", signup{Username: "al-ice", Email: "a@b.co", Password: "pw"}, "username"},
		{"bad website", signup{Username: "alice", Email: "a@b.co", Password: "pw", Website: "not a url"}, "website"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			details := appErr.Details.(map[string]string)
			assert.Contains(t, details, tt.field)
		})
	}
}
