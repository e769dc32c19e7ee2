package hashutil

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ID creates a deterministic 7-character hex ID from the given parts.
// Parts are joined with a NUL byte so ("ab", "c") and ("a", "bc") differ.
func ID(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%x", hash[:4])[:7]
}
