// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/apperr"
)

func TestPermissions(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	_, err := s.CreatePermission(ctx, NameInput{Name: "write"})
	require.NoError(t, err)
	_, err = s.CreatePermission(ctx, NameInput{Name: "write"})
	assertKind(t, err, apperr.KindConflict)
	_, err = s.CreatePermission(ctx, NameInput{})
	assertKind(t, err, apperr.KindMissingArgument)

	perms, err := s.ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, 1)

	require.NoError(t, s.DeletePermission(ctx, "write"))
	assertKind(t, s.DeletePermission(ctx, "write"), apperr.KindNotFound)
}

func TestTags(t *testing.T) {
	s := newTestService(t, Options{})
	ctx := context.Background()

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tags)

	for _, name := range []string{"rust", "go"} {
		_, err := s.CreateTag(ctx, NameInput{Name: name})
		require.NoError(t, err)
	}
	_, err = s.CreateTag(ctx, NameInput{Name: "go"})
	assertKind(t, err, apperr.KindConflict)

	tags, err = s.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)

	require.NoError(t, s.DeleteTag(ctx, "go"))
	assertKind(t, s.DeleteTag(ctx, "go"), apperr.KindNotFound)
}
