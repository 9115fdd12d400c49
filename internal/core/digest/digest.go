// Package digest computes content fingerprints for files tracked by the
// activity ledger. Digests are SHA-256 over raw bytes, so identical
// content always produces the same digest regardless of path.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// File computes the hex-encoded SHA-256 digest of the file at path.
// It returns ok=false when the path is missing, is a directory, or
// cannot be read. Callers store a null hash in that case rather than
// treating it as an error.
func File(path string) (digest string, ok bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	file, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", false
	}

	return hex.EncodeToString(hash.Sum(nil)), true
}
