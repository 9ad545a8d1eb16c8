package encodable

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewPointer returns a new pointer Encodable.
func NewPointer(ty reflect.Type, config Config, src Source) *Pointer {
	if ty.Kind() != reflect.Ptr {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a pointer", ty), 0))
	}

	return &Pointer{
		ty:   ty,
		elem: src.NewEncodable(ty.Elem(), config, nil),
	}
}

// Pointer encodes the value a pointer points to, and nothing else; the encoding is that of the element.
// Pointers are how recursive types are boxed, as in a union variant that holds the union.
//
// Encoding a nil pointer is an encio.ErrNilPointer error.
// Decoding allocates a new element if the pointer is nil, otherwise it decodes into the existing element.
type Pointer struct {
	ty     reflect.Type
	elem   *Encodable
	sizing bool
}

// Size implements Encodable.
func (e *Pointer) Size() int {
	if e.sizing {
		// Recursive; the size depends on the depth of the value.
		return variableSize
	}
	e.sizing = true
	defer func() { e.sizing = false }()
	return (*e.elem).Size()
}

// Type implements Encodable.
func (e *Pointer) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Pointer) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	eptr := *(*unsafe.Pointer)(ptr)
	if eptr == nil {
		return encio.NewError(encio.ErrNilPointer, fmt.Sprintf("cannot encode nil %v", e.ty), 0)
	}

	return (*e.elem).Encode(eptr, w)
}

// Decode implements Encodable.
func (e *Pointer) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)

	eptr := *(*unsafe.Pointer)(ptr)
	if eptr != nil {
		return (*e.elem).Decode(eptr, r)
	}

	elem := reflect.New(e.ty.Elem())
	if err := (*e.elem).Decode(elem.UnsafePointer(), r); err != nil {
		return err
	}
	reflect.NewAt(e.ty, ptr).Elem().Set(elem)
	return nil
}
