// Package idgen generates random URL-safe tokens for form nonces and upload
// object names.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// NonceLength is the size of a form nonce. 32 characters from a 62-symbol
// alphabet is about 190 bits.
const NonceLength = 32

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Nonce returns a new form nonce.
func Nonce() (string, error) {
	return Generate(NonceLength)
}

// Generate returns n random alphanumeric characters.
func Generate(n int) (string, error) {
	id, err := nanoid.Generate(alphabet, n)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}
