package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ResponseFingerprint is the hash of a response bit string, used to compare
// reconstructed secrets without holding the secret itself.
type ResponseFingerprint Hash

func NewResponseFingerprint(bits []byte) ResponseFingerprint {
	return ResponseFingerprint(NewHash(bits))
}

func (f ResponseFingerprint) String() string { return Hash(f).String() }

// DeriveStreamSeed maps a base seed plus a stream name onto an independent
// 63-bit seed. Named streams let every simulated device draw from its own
// deterministic randomness without the streams being correlated.
func DeriveStreamSeed(baseSeed int64, name string) int64 {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(baseSeed))
	h.Write(buf[:])
	fmt.Fprint(h, name)
	sum := h.Sum(nil)
	seed := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	return seed
}
