package storage

import (
	"fmt"
	"strings"
)

// Dots separate subject tokens in KV keys.
const keySeparator = "_"

// Key returns the KV key of a version, e.g. "29.0" -> "29_0".
func Key(version string) string {
	return strings.ReplaceAll(version, ".", keySeparator)
}

// VersionFromKey reverses Key.
func VersionFromKey(key string) (string, error) {
	if key == "" || strings.Contains(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return strings.ReplaceAll(key, keySeparator, "."), nil
}
