package encio

import (
	"io"
)

// Buffer is a growable byte sink and source. It operates similar to bytes.Buffer;
// Write appends, Read consumes from the front.
// The zero value is an empty buffer ready to use.
type Buffer struct {
	buff []byte
	off  int
}

// NewBuffer returns a Buffer that appends onto buff and reads from its start.
func NewBuffer(buff []byte) *Buffer {
	return &Buffer{buff: buff}
}

// Read implements io.Reader
func (b *Buffer) Read(buff []byte) (int, error) {
	if len(buff) > 0 && b.Len() == 0 {
		return 0, io.EOF
	}
	n := copy(buff, b.buff[b.off:])
	b.off += n
	return n, nil
}

// ReadByte implements io.ByteReader
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	by := b.buff[b.off]
	b.off++
	return by, nil
}

// Write implements io.Writer
func (b *Buffer) Write(buff []byte) (int, error) {
	b.buff = append(b.buff, buff...)
	return len(buff), nil
}

// WriteByte implements io.ByteWriter
func (b *Buffer) WriteByte(by byte) error {
	b.buff = append(b.buff, by)
	return nil
}

// Bytes returns the unread portion of the buffer.
// It aliases the buffer's memory until the next write.
func (b *Buffer) Bytes() []byte {
	return b.buff[b.off:]
}

// Len returns the length of the unread portion of the buffer
func (b *Buffer) Len() int {
	return len(b.buff) - b.off
}

// Reset empties the buffer, keeping its memory for reuse.
func (b *Buffer) Reset() {
	b.buff = b.buff[:0]
	b.off = 0
}
