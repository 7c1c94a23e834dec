package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SecretPrefix is the prefix for Standard Webhooks symmetric secrets
	SecretPrefix = "whsec_"

	// SignatureVersion is the version identifier for symmetric signatures
	SignatureVersion = "v1"

	// MinSecretBytes is the minimum recommended secret size (192 bits)
	MinSecretBytes = 24

	// MaxSecretBytes is the maximum recommended secret size (512 bits)
	MaxSecretBytes = 64
)

// Secret represents a Standard Webhooks signing secret
type Secret struct {
	raw    []byte
	base64 string
}

// GenerateSecret creates a new cryptographically secure signing secret
// between MinSecretBytes and MaxSecretBytes in size.
func GenerateSecret(size int) (Secret, error) {
	if size < MinSecretBytes || size > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	bytes := make([]byte, size)
	if _, err := rand.Read(bytes); err != nil {
		return Secret{}, fmt.Errorf("generating random bytes: %w", err)
	}

	return Secret{
		raw:    bytes,
		base64: SecretPrefix + base64.StdEncoding.EncodeToString(bytes),
	}, nil
}

// ParseSecret parses a base64-encoded secret with the whsec_ prefix
func ParseSecret(encoded string) (Secret, error) {
	if !strings.HasPrefix(encoded, SecretPrefix) {
		return Secret{}, fmt.Errorf("secret must start with %s prefix", SecretPrefix)
	}

	b64 := strings.TrimPrefix(encoded, SecretPrefix)
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Secret{}, fmt.Errorf("decoding base64 secret: %w", err)
	}

	if len(raw) < MinSecretBytes || len(raw) > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	return Secret{
		raw:    raw,
		base64: encoded,
	}, nil
}

// String returns the base64-encoded secret with prefix
func (s Secret) String() string {
	return s.base64
}

// Bytes returns the raw secret bytes
func (s Secret) Bytes() []byte {
	return s.raw
}

// IsZero reports whether no secret has been configured
func (s Secret) IsZero() bool {
	return len(s.raw) == 0
}

// Sign creates a Standard Webhooks signature over {deliveryID}.{timestamp}.{body}.
// The returned value is ready to use as a webhook-signature header: v1,<base64>
func Sign(secret Secret, deliveryID string, timestamp time.Time, body []byte) (string, error) {
	if strings.Contains(deliveryID, ".") {
		return "", fmt.Errorf("delivery ID must not contain '.'")
	}

	signedContent := fmt.Sprintf("%s.%s.%s", deliveryID, strconv.FormatInt(timestamp.Unix(), 10), body)

	mac := hmac.New(sha256.New, secret.Bytes())
	mac.Write([]byte(signedContent))

	return fmt.Sprintf("%s,%s", SignatureVersion, base64.StdEncoding.EncodeToString(mac.Sum(nil))), nil
}

// Verify checks a v1 signature header value using constant-time comparison
func Verify(secret Secret, deliveryID string, timestamp time.Time, body []byte, header string) (bool, error) {
	parts := strings.SplitN(header, ",", 2)
	if len(parts) != 2 {
		return false, fmt.Errorf("invalid signature format, expected 'version,signature'")
	}
	if parts[0] != SignatureVersion {
		return false, fmt.Errorf("unsupported signature version: %s", parts[0])
	}

	calculated, err := Sign(secret, deliveryID, timestamp, body)
	if err != nil {
		return false, fmt.Errorf("calculating signature: %w", err)
	}

	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("decoding expected signature: %w", err)
	}

	got, err := base64.StdEncoding.DecodeString(strings.SplitN(calculated, ",", 2)[1])
	if err != nil {
		return false, fmt.Errorf("decoding calculated signature: %w", err)
	}

	return subtle.ConstantTimeCompare(expected, got) == 1, nil
}
