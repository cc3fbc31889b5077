package reservations

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// CodeGenerator produces confirmation codes.
type CodeGenerator func() (string, error)

// GenerateConfirmationCode returns 8 upper-case hex characters from crypto/rand.
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// NormalizeCode trims and upper-cases a code supplied by a caller.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
