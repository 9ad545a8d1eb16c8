package encio

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Reader is the byte source decoders consume.
// Every call asks for exactly len(p) bytes, and an implementation must not take more from its
// underlying stream than it hands out.
type Reader interface {
	// ReadFull fills p or returns an error. Errors are IOErrors carrying the stream offset.
	ReadFull(p []byte) error

	// Offset returns the number of bytes consumed so far.
	Offset() int64
}

// NewReader returns a blocking Reader over r.
func NewReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// StreamReader is a blocking Reader. Each ReadFull blocks the calling goroutine on r until
// the request is filled or r fails.
type StreamReader struct {
	r   io.Reader
	off int64
}

// ReadFull implements Reader.
func (s *StreamReader) ReadFull(p []byte) error {
	n, err := readFull(p, s.r)
	s.off += int64(n)
	if err != nil {
		return NewIOError(err, fmt.Sprintf("want %v bytes but only got %v", len(p), n), s.off)
	}
	return nil
}

// Offset implements Reader.
func (s *StreamReader) Offset() int64 { return s.off }

// AsyncReader is a byte source whose reads may park until data arrives,
// and give up when ctx is done.
type AsyncReader interface {
	// ReadExact fills p, returning the number of bytes read.
	// n == len(p) if and only if err is nil.
	ReadExact(ctx context.Context, p []byte) (n int, err error)
}

// NewSuspendReader returns a Reader that suspends on r at every read.
// ctx is handed to r at each of these points, and is checked before each one.
func NewSuspendReader(ctx context.Context, r AsyncReader) *SuspendReader {
	return &SuspendReader{ctx: ctx, r: r}
}

// SuspendReader is the suspendable Reader. It makes the same requests, in the same order, as a
// StreamReader would for the same decode; only the waiting differs.
type SuspendReader struct {
	ctx context.Context
	r   AsyncReader
	off int64
}

// ReadFull implements Reader.
func (s *SuspendReader) ReadFull(p []byte) error {
	if err := s.ctx.Err(); err != nil {
		return NewIOError(err, "decode suspended", s.off)
	}

	n, err := s.r.ReadExact(s.ctx, p)
	s.off += int64(n)
	if err != nil {
		return NewIOError(err, fmt.Sprintf("want %v bytes but only got %v", len(p), n), s.off)
	}
	if n != len(p) {
		return NewIOError(io.ErrNoProgress, fmt.Sprintf("bad AsyncReader implementation: want %v bytes but got %v without error", len(p), n), s.off)
	}
	return nil
}

// Offset implements Reader.
func (s *SuspendReader) Offset() int64 { return s.off }

// Async adapts an io.Reader to AsyncReader. ctx is checked between reads of r;
// a single blocked Read on r is not interrupted. Use NewDeadlineReader for connections.
func Async(r io.Reader) AsyncReader {
	return asyncReader{r: r}
}

type asyncReader struct {
	r io.Reader
}

func (a asyncReader) ReadExact(ctx context.Context, p []byte) (int, error) {
	end := 0
	for end < len(p) {
		if err := ctx.Err(); err != nil {
			return end, err
		}

		n, err := a.r.Read(p[end:])
		end += n
		if end == len(p) {
			return end, nil
		}

		switch {
		case errors.Is(err, io.EOF):
			return end, io.ErrUnexpectedEOF
		case err != nil:
			return end, err
		case n == 0:
			return end, io.ErrNoProgress
		}
	}
	return end, nil
}
