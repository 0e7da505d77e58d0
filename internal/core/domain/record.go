package domain

import "errors"

// ErrIDMismatch is returned when a record's ID does not hash from its
// intrinsic half.
var ErrIDMismatch = errors.New("domain: id does not match intrinsic content")

// Record is a stored unit.
type Record struct {
	ID        ID
	Intrinsic []byte
	Extrinsic []byte
}

// NewRecord builds a record and derives its ID.
func NewRecord(intrinsic, extrinsic []byte) *Record {
	return &Record{
		ID:        NewID(intrinsic),
		Intrinsic: intrinsic,
		Extrinsic: extrinsic,
	}
}

// Verify checks that ID matches the intrinsic half.
func (r *Record) Verify() error {
	if NewID(r.Intrinsic) != r.ID {
		return ErrIDMismatch
	}
	return nil
}

// Size returns the number of bytes the record holds.
func (r *Record) Size() int64 {
	return int64(IDSize + len(r.Intrinsic) + len(r.Extrinsic))
}
