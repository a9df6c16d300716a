package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

func base64UrlEncode(input []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(input), "=")
}

func base64UrlDecode(input string) ([]byte, error) {
	padded := input
	if m := len(input) % 4; m != 0 {
		padded += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(padded)
}

// NewCartID mints a random opaque cart identifier.
func NewCartID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// CreateCartToken signs a cart identifier so a client cannot address another
// session's cart by guessing its id.
func CreateCartToken(secret, cartID string) string {
	payload := base64UrlEncode([]byte(cartID))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return payload + "." + base64UrlEncode(mac.Sum(nil))
}

// VerifyCartToken checks the signature and returns the embedded cart id.
func VerifyCartToken(secret, token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[0]))
	want := base64UrlEncode(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(parts[1])) {
		return "", false
	}

	cartID, err := base64UrlDecode(parts[0])
	if err != nil {
		return "", false
	}
	return string(cartID), true
}
