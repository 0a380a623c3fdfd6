// Package invite generates and validates group invite codes.
package invite

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

// Length is the exact number of characters in an invite code.
const Length = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a random invite code of Length characters from A-Z0-9.
func Generate() (string, error) {
	var b strings.Builder
	b.Grow(Length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Normalize trims and upper-cases user input and checks the format.
func Normalize(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !Valid(code) {
		return "", models.InvalidInput("invite code must be %d letters or digits", Length)
	}
	return code, nil
}

// Valid reports whether code is exactly Length characters of A-Z0-9.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
