package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Admin PINs unlock the shared front-of-house order board. They are short
// numeric secrets, so they are only ever stored hashed.

func HashPin(pin string) (string, error) {
	pin = strings.TrimSpace(pin)
	if len(pin) < 4 || len(pin) > 8 {
		return "", errors.New("pin must be 4-8 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return "", errors.New("pin must be numeric")
		}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPin(hashedPin string, pin string) bool {
	if hashedPin == "" || pin == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPin), []byte(strings.TrimSpace(pin))) == nil
}
