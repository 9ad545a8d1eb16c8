// Package encio provides io methods relevant to encoding, as well as error types.
//
// Decoders consume bytes through the Reader interface, which has a blocking implementation
// (NewReader) and a suspendable one (NewSuspendReader) over an AsyncReader.
// Both consume exactly the bytes asked of them, in the same order; neither reads ahead.
package encio

import (
	"errors"
	"fmt"
	"io"
)

var (
	// TooBig is a byte count used for simple sanity checking before things like allocation and iteration with numbers decoded from readers.
	// ErrMalformed is returned if a metric exceeds this.
	//
	// By default it is 32MB on 32bit machines, and 128MB on 64bit machines.
	// Feel free to change it.
	TooBig = uintptr(1 << (25 + ((^uint(0) >> 32) & 2)))
)

// Read reads from r, completely filling the buffer. It provides error handling with as little overhead as possible.
// In an ideal read, only a single int equality check is performed. If the read reports the whole buffer is read, returned errors are ignored.
func Read(buff []byte, r io.Reader) error {
	n, err := readFull(buff, r)
	if err != nil {
		return NewIOError(err, fmt.Sprintf("want %v bytes but only got %v", len(buff), n), -1)
	}
	return nil
}

// readFull fills buff from r, returning the number of bytes read.
// A stream ending before buff is full is io.ErrUnexpectedEOF, even if nothing was read;
// a caller asking for bytes always expects them.
func readFull(buff []byte, r io.Reader) (int, error) {
	n, err := r.Read(buff)
	if n == len(buff) {
		return n, nil
	}

	end := n
	for end < len(buff) && err == nil && n > 0 {
		n, err = r.Read(buff[end:])
		end += n
	}

	if end != len(buff) {
		switch {
		case end > len(buff):
			return len(buff), fmt.Errorf("bad io.Reader implementation: reported %v bytes read, but buffer is only %v bytes", end, len(buff))
		case errors.Is(err, io.EOF):
			return end, io.ErrUnexpectedEOF
		case err != nil:
			return end, err
		default: // err == nil
			return end, io.ErrNoProgress
		}
	}
	return end, nil
}

// Write writes to w from buff, handling errors of io.Writer with as little overhead as possible.
// In an ideal write, only a single int equality check is performed. It returns any error from Write().
func Write(buff []byte, w io.Writer) error {
	n, err := w.Write(buff)
	if n == len(buff) {
		return err
	}

	end := n
	for end < len(buff) && err == nil && n > 0 {
		fmt.Fprintf(Warnings, "posenc: %T is a bad io.Writer implementation. It wrote short (given %v bytes but reported only %v written) yet returned no error. Will call it again...\n", w, len(buff)-(end-n), n)
		n, err = w.Write(buff[end:])
		end += n
	}

	if end != len(buff) {
		switch {
		case end > len(buff):
			return NewIOError(
				errors.New("bad io.Writer implementation"),
				fmt.Sprintf("Write() reported %v bytes written, but was only given %v bytes", end, len(buff)),
				-1,
			)
		case err == nil:
			return NewIOError(
				io.ErrShortWrite,
				fmt.Sprintf("want %v bytes but only wrote %v bytes", len(buff), end),
				-1,
			)
		default:
			return NewIOError(
				err,
				fmt.Sprintf("want %v bytes but wrote %v bytes", len(buff), end),
				-1,
			)
		}
	}
	return nil
}

// readChunk bounds the allocation made ahead of data actually arriving.
const readChunk = 1 << 16

// ReadBytes reads exactly n bytes from r into a new slice.
// The slice grows as data arrives, so a stream that declares a large length and then ends early
// costs at most one chunk beyond what was actually read.
func ReadBytes(r Reader, n int) ([]byte, error) {
	if n <= readChunk {
		buff := make([]byte, n)
		if err := r.ReadFull(buff); err != nil {
			return nil, err
		}
		return buff, nil
	}

	buff := make([]byte, 0, readChunk)
	for len(buff) < n {
		take := n - len(buff)
		if take > readChunk {
			take = readChunk
		}

		start := len(buff)
		buff = append(buff, make([]byte, take)...)
		if err := r.ReadFull(buff[start:]); err != nil {
			return nil, err
		}
	}
	return buff, nil
}
