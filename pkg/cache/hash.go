package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GenerationKey builds a cache key for an AI generation response.
// Identical description+provider pairs always map to the same key.
func GenerationKey(description, provider string) string {
	return fmt.Sprintf("generation:%s", Hash([]byte(description+"-"+provider)))
}

// ArtifactKey builds a cache key for a rendered diagram artifact.
// The fingerprint is the diagram spec's content fingerprint.
func ArtifactKey(fingerprint string) string {
	return fmt.Sprintf("artifact:%s", fingerprint)
}
