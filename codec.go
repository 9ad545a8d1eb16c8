package posenc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

// NewCodec returns a Codec for T with the default configuration.
func NewCodec[T any]() (*Codec[T], error) {
	return NewCodecWithConfig[T](nil)
}

// NewCodecWithConfig returns a Codec for T.
// It returns an encio.Error wrapping encio.ErrBadType if T, or any type it contains, cannot be encoded.
func NewCodecWithConfig[T any](config *Config) (*Codec[T], error) {
	enc, err := getEncodable(reflect.TypeOf((*T)(nil)).Elem(), config.copyAndFill())
	if err != nil {
		return nil, err
	}

	return &Codec[T]{
		enc: enc,
	}, nil
}

// Codec encodes and decodes values of type T. It is safe for concurrent use.
type Codec[T any] struct {
	enc *encodable.Concurrent
}

// Size returns the encoded size of every T, or a negative number if the size depends on the value.
func (c *Codec[T]) Size() int {
	return c.enc.Size()
}

// Encode writes the encoding of v to w.
// Nothing is written if v cannot be encoded.
func (c *Codec[T]) Encode(v T, w io.Writer) error {
	buff, err := c.Append(nil, v)
	if err != nil {
		return err
	}
	return encio.Write(buff, w)
}

// Append appends the encoding of v to buff.
// On error buff is returned as it was given.
func (c *Codec[T]) Append(buff []byte, v T) ([]byte, error) {
	b := encio.NewBuffer(buff)
	if err := c.enc.Encode(unsafe.Pointer(&v), b); err != nil {
		return buff, err
	}
	return b.Bytes(), nil
}

// Decode decodes a T that takes up the whole of data.
// Bytes left over after the value are an encio.ErrMalformed error.
func (c *Codec[T]) Decode(data []byte) (T, error) {
	var v T
	r := encio.NewReader(bytes.NewReader(data))
	if err := c.enc.Decode(unsafe.Pointer(&v), r); err != nil {
		return *new(T), err
	}

	if r.Offset() != int64(len(data)) {
		return *new(T), encio.NewIOError(
			encio.ErrMalformed,
			fmt.Sprintf("%v trailing bytes after value", int64(len(data))-r.Offset()),
			r.Offset(),
		)
	}
	return v, nil
}

// DecodeFrom decodes a T from r, reading exactly its encoding and no further, blocking as needed.
func (c *Codec[T]) DecodeFrom(r io.Reader) (T, error) {
	var v T
	if err := c.DecodeInto(encio.NewReader(r), &v); err != nil {
		return *new(T), err
	}
	return v, nil
}

// DecodeAsync decodes a T from r, suspending at each read until r has the data.
// It consumes exactly the bytes DecodeFrom would. If ctx is done while suspended,
// it returns an error wrapping ctx.Err(), and the stream position is lost.
func (c *Codec[T]) DecodeAsync(ctx context.Context, r encio.AsyncReader) (T, error) {
	var v T
	if err := c.DecodeInto(encio.NewSuspendReader(ctx, r), &v); err != nil {
		return *new(T), err
	}
	return v, nil
}

// DecodeInto decodes from r into the existing value at ptr.
// Slices with enough capacity and non-nil pointers are reused.
func (c *Codec[T]) DecodeInto(r encio.Reader, ptr *T) error {
	if ptr == nil {
		return encio.NewError(encio.ErrNilPointer, "cannot decode into nil pointer", 0)
	}
	return c.enc.Decode(unsafe.Pointer(ptr), r)
}
