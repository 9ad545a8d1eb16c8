package posenc

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

// NewDecoder returns a new Decoder reading from r.
// config may be nil.
func NewDecoder(r io.Reader, config *Config) *Decoder {
	return &Decoder{
		r:      encio.NewReader(r),
		config: config.copyAndFill(),
	}
}

// Decoder reads a stream of values from an io.Reader, blocking as needed.
// It reads exactly the bytes of each value, so values of different types can follow each other.
//
// After a fatal error (see IsFatal) the position in the stream is unknown, and every further call returns the same error.
type Decoder struct {
	r      *encio.StreamReader
	config encodable.Config
	mutex  sync.Mutex
	err    error
}

// Decode decodes the next value into the value pointed to by v.
func (d *Decoder) Decode(v any) error {
	val, err := decodeTarget(v)
	if err != nil {
		return err
	}

	enc, err := getEncodable(val.Type().Elem(), d.config)
	if err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.err != nil {
		return d.err
	}

	err = enc.Decode(val.UnsafePointer(), d.r)
	if encio.IsFatal(err) {
		d.err = err
	}
	return err
}

// Offset returns the number of bytes decoded from the stream.
func (d *Decoder) Offset() int64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.r.Offset()
}

// NewAsyncDecoder returns a new AsyncDecoder reading from r.
// config may be nil.
func NewAsyncDecoder(r encio.AsyncReader, config *Config) *AsyncDecoder {
	return &AsyncDecoder{
		r:      r,
		config: config.copyAndFill(),
	}
}

// AsyncDecoder reads a stream of values from an encio.AsyncReader, suspending at reads until the data arrives.
//
// A decode interrupted by its context leaves the stream part way through a value, and, like a fatal error,
// makes every further call return the same error.
type AsyncDecoder struct {
	r      encio.AsyncReader
	config encodable.Config
	mutex  sync.Mutex
	off    int64
	err    error
}

// Decode decodes the next value into the value pointed to by v.
func (d *AsyncDecoder) Decode(ctx context.Context, v any) error {
	val, err := decodeTarget(v)
	if err != nil {
		return err
	}

	enc, err := getEncodable(val.Type().Elem(), d.config)
	if err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.err != nil {
		return d.err
	}

	r := encio.NewSuspendReader(ctx, d.r)
	err = enc.Decode(val.UnsafePointer(), r)
	d.off += r.Offset()
	if encio.IsFatal(err) || (err != nil && ctx.Err() != nil) {
		d.err = err
	}
	return err
}

// Offset returns the number of bytes decoded from the stream.
func (d *AsyncDecoder) Offset() int64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.off
}

func decodeTarget(v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, encio.NewError(encio.ErrNilPointer, "cannot decode into nil interface", 1)
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return reflect.Value{}, encio.NewError(encio.ErrBadType, fmt.Sprintf("decoded values must be passed by reference (pointer), got %v", val.Type()), 1)
	}
	if val.IsNil() {
		return reflect.Value{}, encio.NewError(encio.ErrNilPointer, "cannot decode into nil pointer", 1)
	}
	return val, nil
}

// DeserializeInto decodes from r into the value pointed to by ptr, blocking as needed.
func DeserializeInto(r io.Reader, ptr any) error {
	val, err := decodeTarget(ptr)
	if err != nil {
		return err
	}

	enc, err := getEncodable(val.Type().Elem(), (*Config)(nil).copyAndFill())
	if err != nil {
		return err
	}
	return enc.Decode(val.UnsafePointer(), encio.NewReader(r))
}
