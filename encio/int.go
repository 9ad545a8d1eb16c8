package encio

import (
	"io"
)

// NewUint64 returns a Uint64.
func NewUint64() Uint64 {
	return Uint64{
		buff: make([]byte, 8),
	}
}

// Uint64 provides methods for encoding and decoding big-endian uint64s.
// It is used for the length prefix of growable sequences.
type Uint64 struct {
	buff []byte
}

// Encode writes the given uint64 to w.
func (e *Uint64) Encode(w io.Writer, n uint64) error {
	BigEndian.PutUint64(e.buff, n)
	return Write(e.buff, w)
}

// Decode decodes a uint64 from r.
func (e *Uint64) Decode(r Reader) (uint64, error) {
	if err := r.ReadFull(e.buff); err != nil {
		return 0, err
	}
	return BigEndian.Uint64(e.buff), nil
}

// NewUint8 returns a Uint8.
func NewUint8() Uint8 {
	return Uint8{
		buff: make([]byte, 1),
	}
}

// Uint8 provides methods for encoding and decoding single bytes.
// It is used for union discriminants.
type Uint8 struct {
	buff []byte
}

// Encode writes the given byte to w.
func (e *Uint8) Encode(w io.Writer, n uint8) error {
	e.buff[0] = n
	return Write(e.buff, w)
}

// Decode decodes a byte from r.
func (e *Uint8) Decode(r Reader) (uint8, error) {
	if err := r.ReadFull(e.buff); err != nil {
		return 0, err
	}
	return e.buff[0], nil
}
