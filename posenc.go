// Package posenc is a positional binary encoding for Go values.
//
// A value is encoded by its shape alone; there are no field names, type descriptors or tags on the wire,
// and both ends must agree on the type.
// Integers and floats are fixed width and big-endian, strings and slices a uint64 length followed by their contents,
// arrays their elements, structs their fields in declaration order, and pointers the value they point to.
// Interface types registered with RegisterUnion are tagged unions; a one byte discriminant followed by the held variant.
//
// Decoding comes in two forms over the same decoder: blocking, reading from an io.Reader,
// and suspendable (DeserializeAsync), which parks at each read on an encio.AsyncReader until the bytes arrive or its context is done.
// Both consume exactly the bytes of one value, leaving the rest of the stream untouched.
//
// Truncated or corrupted input is an encio.IOError. A union discriminant with no variant is fatal (see IsFatal);
// the stream can't be resynchronised after it.
//
// posenc/encodable provides Encodables for specific types, the building blocks used here.
//
// posenc/encio provides io and error types for encoding and related tasks.
//
// posenc/store saves and loads values to files, optionally compressed.
package posenc

import (
	"context"
	"io"

	"github.com/stewi1014/posenc/encio"
)

// Serialize returns the encoding of v.
func Serialize[T any](v T) ([]byte, error) {
	codec, err := NewCodec[T]()
	if err != nil {
		return nil, err
	}
	return codec.Append(nil, v)
}

// SerializeInto writes the encoding of v to w.
// Nothing is written if v cannot be encoded.
func SerializeInto[T any](v T, w io.Writer) error {
	codec, err := NewCodec[T]()
	if err != nil {
		return err
	}
	return codec.Encode(v, w)
}

// Deserialize decodes a T from r, blocking on r as needed.
// It reads exactly the encoding of one T.
func Deserialize[T any](r io.Reader) (T, error) {
	codec, err := NewCodec[T]()
	if err != nil {
		return *new(T), err
	}
	return codec.DecodeFrom(r)
}

// DeserializeBytes decodes a T that takes up the whole of data.
func DeserializeBytes[T any](data []byte) (T, error) {
	codec, err := NewCodec[T]()
	if err != nil {
		return *new(T), err
	}
	return codec.Decode(data)
}

// DeserializeAsync decodes a T from r, suspending the decode at each read until the data is available.
// It reads the same bytes Deserialize would from the same stream.
func DeserializeAsync[T any](ctx context.Context, r encio.AsyncReader) (T, error) {
	codec, err := NewCodec[T]()
	if err != nil {
		return *new(T), err
	}
	return codec.DecodeAsync(ctx, r)
}

// Size returns the encoded size of every T, or a negative number if the size depends on the value.
func Size[T any]() (int, error) {
	codec, err := NewCodec[T]()
	if err != nil {
		return 0, err
	}
	return codec.Size(), nil
}

// IsFatal reports whether err means the stream it came from can't be decoded any further.
func IsFatal(err error) bool {
	return encio.IsFatal(err)
}

// IsRecoverable reports whether err is a problem with the input, such as truncation or invalid UTF-8,
// rather than with the program.
func IsRecoverable(err error) bool {
	return encio.IsRecoverable(err)
}
