package encodable

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewBool returns a new bool Encodable.
func NewBool(ty reflect.Type) *Bool {
	if ty.Kind() != reflect.Bool {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of bool kind", ty.String()), 0))
	}
	return &Bool{
		ty: ty,
	}
}

// Bool is an Encodable for bools.
// true is written as 1 and false as 0. Any nonzero byte decodes as true.
type Bool struct {
	ty   reflect.Type
	buff [1]byte
}

// Size implements Encodable.
func (e *Bool) Size() int { return 1 }

// Type implements Encodable.
func (e *Bool) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Bool) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	if *(*bool)(ptr) {
		e.buff[0] = 1
	} else {
		e.buff[0] = 0
	}
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Bool) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}
	*(*bool)(ptr) = e.buff[0] != 0
	return nil
}
