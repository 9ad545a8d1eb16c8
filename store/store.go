// Package store saves values to files and loads them back.
//
// By default a file holds exactly the encoding of the value, and nothing else.
// With compression the file is a header naming the algorithm and the decompressed size,
// followed by the compressed encoding and its xxHash checksum, which Load verifies.
//
// Saves are atomic; the value is written to a temporary file in the same directory and renamed into place.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/stewi1014/posenc"
	"github.com/stewi1014/posenc/encio"
)

var (
	// ErrChecksum is returned when a compressed file's contents don't match their checksum.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrCorrupt is returned when a compressed file's header is invalid.
	ErrCorrupt = errors.New("corrupt file")
)

// header precedes the compressed body of a compressed file.
type header struct {
	Compression Compression
	Size        uint64
}

const checksumSize = 8

var headerCodec = must(posenc.NewCodec[header]())

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Save encodes v and writes it to path, replacing any existing file.
func Save[T any](path string, v T, opts ...Option) error {
	o := newOptions(opts)

	codec, err := posenc.NewCodecWithConfig[T](o.config)
	if err != nil {
		return err
	}

	data, err := codec.Append(nil, v)
	if err != nil {
		return err
	}

	if o.compression != None {
		if data, err = pack(data, o.compression); err != nil {
			return fmt.Errorf("compressing %v: %w", path, err)
		}
	}

	return writeFile(path, data, o.mode)
}

// Load reads the value saved at path.
func Load[T any](path string, opts ...Option) (T, error) {
	o := newOptions(opts)

	codec, err := posenc.NewCodecWithConfig[T](o.config)
	if err != nil {
		return *new(T), err
	}

	data, err := readFile(path, o)
	if err != nil {
		return *new(T), err
	}

	v, err := codec.Decode(data)
	if err != nil {
		return *new(T), fmt.Errorf("decoding %v: %w", path, err)
	}
	return v, nil
}

// LoadInto reads the value saved at path into the value ptr points to.
func LoadInto(path string, ptr any, opts ...Option) error {
	o := newOptions(opts)

	data, err := readFile(path, o)
	if err != nil {
		return err
	}

	dec := posenc.NewDecoder(bytes.NewReader(data), o.config)
	if err := dec.Decode(ptr); err != nil {
		return fmt.Errorf("decoding %v: %w", path, err)
	}

	if dec.Offset() != int64(len(data)) {
		return fmt.Errorf("decoding %v: %w", path, encio.NewIOError(
			encio.ErrMalformed,
			fmt.Sprintf("%v trailing bytes after value", int64(len(data))-dec.Offset()),
			dec.Offset(),
		))
	}
	return nil
}

func readFile(path string, o *options) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if o.compression == None {
		return data, nil
	}

	data, err = unpack(data, o.maxSize)
	if err != nil {
		return nil, fmt.Errorf("decompressing %v: %w", path, err)
	}
	return data, nil
}

// pack returns the compressed file contents for payload.
func pack(payload []byte, c Compression) ([]byte, error) {
	body := encio.BigEndian.AppendUint64(payload, xxhash.Sum64(payload))

	compressed, err := compress(body, c)
	switch {
	case errors.Is(err, errIncompressible):
		c, compressed = None, body
	case err != nil:
		return nil, err
	}

	out, err := headerCodec.Append(make([]byte, 0, headerCodec.Size()+len(compressed)), header{
		Compression: c,
		Size:        uint64(len(body)),
	})
	if err != nil {
		return nil, err
	}
	return append(out, compressed...), nil
}

// unpack returns the payload of compressed file contents.
func unpack(data []byte, maxSize uint64) ([]byte, error) {
	hsize := headerCodec.Size()
	if len(data) < hsize {
		return nil, fmt.Errorf("%w: %v bytes is too short for a header", ErrCorrupt, len(data))
	}

	hdr, err := headerCodec.Decode(data[:hsize])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if hdr.Size < checksumSize || hdr.Size > maxSize+checksumSize {
		return nil, fmt.Errorf("%w: decompressed size %v out of range", ErrCorrupt, hdr.Size)
	}

	body, err := decompress(data[hsize:], hdr.Compression, int(hdr.Size))
	if err != nil {
		return nil, err
	}

	payload, sum := body[:len(body)-checksumSize], body[len(body)-checksumSize:]
	if xxhash.Sum64(payload) != encio.BigEndian.Uint64(sum) {
		return nil, ErrChecksum
	}
	return payload, nil
}

// writeFile atomically replaces path with data.
func writeFile(path string, data []byte, mode fs.FileMode) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}

	defer func() {
		if err == nil {
			return
		}
		f.Close()
		if rerr := os.Remove(f.Name()); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			fmt.Fprintf(encio.Warnings, "store: removing temporary file: %v\n", rerr)
		}
	}()

	if err = encio.Write(data, f); err != nil {
		return err
	}
	if err = f.Chmod(mode); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
