// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTPIssuer names the service in authenticator apps.
const TOTPIssuer = "Folio"

// TOTPEnrollment is a freshly generated TOTP secret with its provisioning QR.
type TOTPEnrollment struct {
	Secret string
	URL    string
	QRCode string // base64-encoded PNG
}

// NewTOTP generates a TOTP secret for accountName.
func NewTOTP(accountName string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}
	return enrollment(key)
}

// TOTPFromSecret rebuilds the enrollment for an existing secret, used to
// show the QR code again after a failed confirmation.
func TOTPFromSecret(accountName, secret string) (*TOTPEnrollment, error) {
	url := fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s", TOTPIssuer, accountName, secret, TOTPIssuer)
	key, err := otp.NewKeyFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("totp key from url: %w", err)
	}
	return enrollment(key)
}

// ValidateTOTP checks a code against a secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}

func enrollment(key *otp.Key) (*TOTPEnrollment, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return &TOTPEnrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}
