package otpgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	MinLength = 4
	MaxLength = 10
)

// New generates a zero-padded numeric code of the given length using a
// uniform cryptographic random source. math/rand would make codes
// guessable from earlier outputs.
func New(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", fmt.Errorf("code length %d out of range [%d,%d]", length, MinLength, MaxLength)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
