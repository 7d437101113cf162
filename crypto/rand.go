package crypto

import (
	"crypto/rand"
	"math/big"
)

// AlphanumericAlphabet is the default alphabet for random tokens.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DigitsAlphabet is used for numeric one-time codes.
const DigitsAlphabet = "0123456789"

// RandomString returns a cryptographically secure random string of the given
// length drawn uniformly from alphabet. rand.Int performs rejection sampling,
// so there is no modulo bias.
func RandomString(length int, alphabet string) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// RandomDigits returns a fixed-width numeric code. Leading zeros are
// preserved, so the result is always exactly length characters.
func RandomDigits(length int) string {
	return RandomString(length, DigitsAlphabet)
}
