// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
)

const testKey = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("cat")
	require.NoError(t, err)
	assert.NotEqual(t, "cat", hash)
	assert.True(t, CheckPassword(hash, "cat"))
	assert.False(t, CheckPassword(hash, "dog"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewTokenServiceRejectsBadKeys(t *testing.T) {
	_, err := NewTokenService("abcd", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Hour)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Username: "alice", Role: &models.Role{Name: "admin"}}
	token, expires, err := svc.Generate(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenExpired(t *testing.T) {
	svc, err := NewTokenService(testKey, -time.Minute)
	require.NoError(t, err)

	token, _, err := svc.Generate(&models.User{ID: uuid.New(), Username: "bob"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestTokenFromOtherKeyRejected(t *testing.T) {
	issuer := NewEphemeralTokenService(time.Hour)
	verifier, err := NewTokenService(testKey, time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Generate(&models.User{ID: uuid.New(), Username: "eve"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTOTPEnrollmentAndValidation(t *testing.T) {
	enr, err := NewTOTP("alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, enr.Secret)
	assert.NotEmpty(t, enr.QRCode)
	assert.Contains(t, enr.URL, "issuer=Folio")

	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)
	assert.True(t, ValidateTOTP(code, enr.Secret))
	assert.False(t, ValidateTOTP("000000x", enr.Secret))

	again, err := TOTPFromSecret("alice@example.com", enr.Secret)
	require.NoError(t, err)
	assert.Equal(t, enr.Secret, again.Secret)
}
