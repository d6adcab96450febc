// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"folio/internal/models"
)

const (
	tokenIssuer   = "folio"
	tokenAudience = "folio-api"

	// PASETO v4 symmetric keys are 32 bytes.
	keyBytesSize = 32
	keyHexSize   = 64
)

// Claims are the decrypted contents of an API token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// TokenService issues and verifies PASETO v4.local bearer tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewTokenService creates a token service from a 64-character hex key.
func NewTokenService(keyHex string, ttl time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("token key must be exactly %d hex characters, got %d", keyHexSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for token key: %w", err)
	}
	if len(keyBytes) != keyBytesSize {
		return nil, fmt.Errorf("decoded key must be exactly %d bytes, got %d", keyBytesSize, len(keyBytes))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create token key: %w", err)
	}

	return &TokenService{key: key, ttl: ttl}, nil
}

// NewEphemeralTokenService creates a token service with a random key.
// Tokens it issues stop verifying once the process exits.
func NewEphemeralTokenService(ttl time.Duration) *TokenService {
	return &TokenService{key: paseto.NewV4SymmetricKey(), ttl: ttl}
}

// Generate issues a token for user and returns it with its expiry.
func (s *TokenService) Generate(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(s.ttl)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID.String())
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(uuid.NewString())

	if err := token.Set("user_id", user.ID.String()); err != nil {
		return "", time.Time{}, fmt.Errorf("set token claim: %w", err)
	}
	if err := token.Set("username", user.Username); err != nil {
		return "", time.Time{}, fmt.Errorf("set token claim: %w", err)
	}
	if err := token.Set("role", user.RoleName()); err != nil {
		return "", time.Time{}, fmt.Errorf("set token claim: %w", err)
	}

	return token.V4Encrypt(s.key, nil), expires, nil
}

// Verify decrypts a token and checks issuer, audience and validity window.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return &claims, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
