package encodable

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewArray returns a new array Encodable.
func NewArray(ty reflect.Type, config Config, src Source) *Array {
	if ty.Kind() != reflect.Array {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not an Array", ty), 0))
	}

	return &Array{
		ty:    ty,
		len:   uintptr(ty.Len()),
		size:  ty.Elem().Size(),
		bytes: isByteKind(ty.Elem()),
		elem:  src.NewEncodable(ty.Elem(), config, nil),
	}
}

// Array is an Encodable for arrays.
// The length is part of the type, so only the elements are written.
// Nested arrays give matrices, written row by row.
type Array struct {
	ty    reflect.Type
	elem  *Encodable
	len   uintptr
	size  uintptr
	bytes bool
}

// Size implements Encodable.
func (e *Array) Size() int {
	s := (*e.elem).Size()
	if s < 0 {
		return variableSize
	}
	return s * int(e.len)
}

// Type implements Encodable.
func (e *Array) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Array) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	if e.bytes {
		return encio.Write(unsafe.Slice((*byte)(ptr), e.len), w)
	}

	for i := uintptr(0); i < e.len; i++ {
		eptr := unsafe.Add(ptr, i*e.size)
		if err := (*e.elem).Encode(eptr, w); err != nil {
			return err
		}
	}
	return nil
}

// Decode implments Encodable.
func (e *Array) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if e.bytes {
		return r.ReadFull(unsafe.Slice((*byte)(ptr), e.len))
	}

	for i := uintptr(0); i < e.len; i++ {
		eptr := unsafe.Add(ptr, i*e.size)
		if err := (*e.elem).Decode(eptr, r); err != nil {
			return err
		}
	}
	return nil
}

// isByteKind reports whether ty is a one byte integer, whose memory is its encoding.
func isByteKind(ty reflect.Type) bool {
	return ty.Kind() == reflect.Uint8 || ty.Kind() == reflect.Int8
}
