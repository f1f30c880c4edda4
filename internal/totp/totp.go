// Package totp implements the time-based one-time password second factor:
// secret generation, provisioning URIs for authenticator enrollment, and
// skew-tolerant code verification.
package totp

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// secretBytes gives 160 bits of entropy per RFC 4226's recommendation.
	secretBytes = 20
	// period is the TOTP time step in seconds.
	period = 30
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret produces a fresh base32-encoded shared secret.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return b32.EncodeToString(buf), nil
}

// ProvisioningURI builds an otpauth:// key URI for the secret, suitable for
// rendering as a QR code. No network calls are made.
func ProvisioningURI(secret, issuer, account string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", issuer)
	v.Set("algorithm", otp.AlgorithmSHA1.String())
	v.Set("digits", otp.DigitsSix.String())
	v.Set("period", fmt.Sprintf("%d", period))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + issuer + ":" + account,
		RawQuery: v.Encode(),
	}
	return u.String()
}

// VerifyCode reports whether code matches the secret for the current time
// step or its immediate neighbors. Malformed input is rejected before any
// candidate is computed; verification never errors, it only fails.
func VerifyCode(code, secret string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}

	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
