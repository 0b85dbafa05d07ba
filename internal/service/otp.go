package service

import (
	"crypto/rand"
	"math/big"
)

// DefaultOTPLength is the width of generated one-time codes.
const DefaultOTPLength = 6

// GenerateOTP returns a fixed-width numeric one-time code drawn from
// crypto/rand. Uniqueness is per-order: each handoff boundary rotates the
// code stored on the order, so no global used-code bookkeeping is needed.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = DefaultOTPLength
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(n.Int64())
	}

	return string(digits), nil
}
