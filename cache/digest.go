package cache

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var digestKey = []byte("docvault-content-digest-key-0001")

// Sum64 hashes data with a fixed-key HighwayHash.
func Sum64(data []byte) (uint64, error) {
	h, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	if _, err = h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Digest returns the content digest of data as 16 hex characters.
func Digest(data []byte) (string, error) {
	sum, err := Sum64(data)
	if err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return fmt.Sprintf("%016x", sum), nil
}
