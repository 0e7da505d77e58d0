package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// IDSize is the byte length of an ID.
const IDSize = sha256.Size

// ErrInvalidID is returned when an ID cannot be parsed.
var ErrInvalidID = errors.New("domain: invalid id")

// ID identifies a Record: the SHA-256 of its intrinsic half.
type ID [IDSize]byte

// NewID hashes intrinsic into an ID.
func NewID(intrinsic []byte) ID {
	return ID(sha256.Sum256(intrinsic))
}

// ParseID decodes a hex-encoded ID.
func ParseID(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(b) != IDSize {
		return id, fmt.Errorf("%w: length %d, want %d", ErrInvalidID, len(b), IDSize)
	}
	copy(id[:], b)
	return id, nil
}

// IDFromBytes copies b into an ID.
func IDFromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != IDSize {
		return id, fmt.Errorf("%w: length %d, want %d", ErrInvalidID, len(b), IDSize)
	}
	copy(id[:], b)
	return id, nil
}

// String returns the hex form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the ID as a key.
func (id ID) Bytes() []byte {
	return id[:]
}
