package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// HashQuery produces a cache key for a user question. Whitespace is
// normalized first so trivially re-typed questions hit the same entry.
func HashQuery(input string) string {
	normalized := strings.Join(strings.Fields(input), " ")
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("%x", hash)
}
