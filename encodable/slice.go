package encodable

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewSlice returns a new slice Encodable.
func NewSlice(ty reflect.Type, config Config, src Source) *Slice {
	if ty.Kind() != reflect.Slice {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a slice", ty), 0))
	}

	return &Slice{
		ty:       ty,
		maxAlloc: config.maxAlloc(),
		bytes:    isByteKind(ty.Elem()),
		elem:     src.NewEncodable(ty.Elem(), config, nil),
		len:      encio.NewUint64(),
	}
}

// tooBig reports whether l elements of size bytes each are over maxAlloc.
// Both directions check it, so anything that encodes also decodes.
func tooBig(l, size uint64, maxAlloc uintptr) bool {
	return l > uint64(maxAlloc) || (size > 0 && l > uint64(maxAlloc)/size)
}

// growChunk is the memory a slice may claim ahead of its elements being read.
const growChunk = 1 << 16

// Slice is an Encodable for slices.
// Slices are a uint64 element count followed by the elements.
//
// Encoded 0-len and nil slices are the same on the wire, and decoding either retains the nil-ness of the slice being decoded into.
// On error the length of the slice being decoded into is left as it was.
type Slice struct {
	ty       reflect.Type
	elem     *Encodable
	maxAlloc uintptr
	bytes    bool
	len      encio.Uint64
}

// Size implemenets Encodable.
func (e *Slice) Size() int { return variableSize }

// Type implements Encodable.
func (e *Slice) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Slice) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)

	slice := reflect.NewAt(e.ty, ptr).Elem()
	l := slice.Len()
	if tooBig(uint64(l), uint64(e.ty.Elem().Size()), e.maxAlloc) {
		return encio.NewError(
			encio.ErrMalformed,
			fmt.Sprintf("cannot encode %v of length %v, it would be too big to decode", e.ty, l),
			0,
		)
	}
	if err := e.len.Encode(w, uint64(l)); err != nil || l == 0 {
		return err
	}

	if e.bytes {
		return encio.Write(unsafe.Slice((*byte)(slice.UnsafePointer()), l), w)
	}

	for i := 0; i < l; i++ {
		if err := (*e.elem).Encode(slice.Index(i).Addr().UnsafePointer(), w); err != nil {
			return err
		}
	}
	return nil
}

// Decode implemenets Encodable.
func (e *Slice) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	slice := reflect.NewAt(e.ty, ptr).Elem()

	l, err := e.len.Decode(r)
	if err != nil {
		return err
	}

	if l == 0 {
		if !slice.IsNil() {
			slice.SetLen(0)
		}
		return nil
	}

	size := uint64(e.ty.Elem().Size())
	if tooBig(l, size, e.maxAlloc) {
		return encio.NewIOError(
			encio.ErrMalformed,
			fmt.Sprintf("slice of length %v (%v bytes each) is too big", l, size),
			r.Offset(),
		)
	}
	length := int(l)

	if e.bytes {
		buff, err := encio.ReadBytes(r, length)
		if err != nil {
			return err
		}
		// One byte elements share their memory layout with []byte.
		*(*[]byte)(ptr) = buff
		return nil
	}

	if slice.Cap() >= length {
		// Decode into a copy of the header so a failure leaves the length as it was.
		dst := slice.Slice(0, length)
		if err := e.decodeElems(dst, 0, r); err != nil {
			return err
		}
		slice.Set(dst)
		return nil
	}

	// Grow as elements arrive rather than trusting the length with one allocation.
	dst := reflect.MakeSlice(e.ty, 0, min(length, max(growChunk/int(max(size, 1)), 1)))
	for dst.Len() < length {
		start := dst.Len()
		end := min(dst.Cap(), length)
		if end == start {
			grown := reflect.MakeSlice(e.ty, start, min(start*2, length))
			reflect.Copy(grown, dst)
			dst = grown
			continue
		}
		dst = dst.Slice(0, end)
		if err := e.decodeElems(dst, start, r); err != nil {
			return err
		}
	}

	slice.Set(dst)
	return nil
}

func (e *Slice) decodeElems(dst reflect.Value, start int, r encio.Reader) error {
	for i := start; i < dst.Len(); i++ {
		if err := (*e.elem).Decode(dst.Index(i).Addr().UnsafePointer(), r); err != nil {
			return err
		}
	}
	return nil
}
