package bookings

import (
	"crypto/rand"
	"fmt"
)

const (
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength   = 7
)

// NewBookingID returns a 7-character alphanumeric token. The space is not
// globally coordinated; the caller handles the (rare) primary-key collision.
func NewBookingID() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate booking id: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
