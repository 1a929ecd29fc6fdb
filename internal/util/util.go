// Package util provides content hashing helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// JSONHash hashes the JSON encoding of v. Values that fail to encode hash to
// the empty string.
func JSONHash(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return ContentHash(data)
}

// ShortHash returns the first n characters of hash, or all of it when shorter.
func ShortHash(hash string, n int) string {
	if n <= 0 || len(hash) <= n {
		return hash
	}
	return hash[:n]
}
