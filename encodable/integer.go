package encodable

// Integer type encoders.
// Signed and unsigned integers of the same width share an Encodable; two's complement big-endian
// is the same bytes as the unsigned big-endian encoding of the same bits.

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

func checkKind(ty reflect.Type, name string, kinds ...reflect.Kind) {
	for _, kind := range kinds {
		if ty.Kind() == kind {
			return
		}
	}
	panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of %v kind", ty.String(), name), 1))
}

// NewUint8 returns a new 8 bit integer Encodable.
func NewUint8(ty reflect.Type) *Uint8 {
	checkKind(ty, "8 bit integer", reflect.Uint8, reflect.Int8)
	return &Uint8{
		ty: ty,
	}
}

// Uint8 is an Encodable for uint8s and int8s.
type Uint8 struct {
	ty   reflect.Type
	buff [1]byte
}

// Size implements Encodable.
func (e *Uint8) Size() int { return 1 }

// Type implements Encodable.
func (e *Uint8) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Uint8) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	e.buff[0] = *(*uint8)(ptr)
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Uint8) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	*(*uint8)(ptr) = e.buff[0]
	return nil
}

// NewUint16 returns a new 16 bit integer Encodable.
func NewUint16(ty reflect.Type) *Uint16 {
	checkKind(ty, "16 bit integer", reflect.Uint16, reflect.Int16)
	return &Uint16{
		ty: ty,
	}
}

// Uint16 is an Encodable for uint16s and int16s.
type Uint16 struct {
	ty   reflect.Type
	buff [2]byte
}

// Size implements Encodable.
func (e *Uint16) Size() int { return 2 }

// Type implements Encodable.
func (e *Uint16) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Uint16) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint16(e.buff[:], *(*uint16)(ptr))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Uint16) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	*(*uint16)(ptr) = encio.BigEndian.Uint16(e.buff[:])
	return nil
}

// NewUint32 returns a new 32 bit integer Encodable.
func NewUint32(ty reflect.Type) *Uint32 {
	checkKind(ty, "32 bit integer", reflect.Uint32, reflect.Int32)
	return &Uint32{
		ty: ty,
	}
}

// Uint32 is an Encodable for uint32s and int32s.
type Uint32 struct {
	ty   reflect.Type
	buff [4]byte
}

// Size implements Encodable.
func (e *Uint32) Size() int { return 4 }

// Type implements Encodable.
func (e *Uint32) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Uint32) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint32(e.buff[:], *(*uint32)(ptr))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Uint32) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	*(*uint32)(ptr) = encio.BigEndian.Uint32(e.buff[:])
	return nil
}

// NewUint64 returns a new 64 bit integer Encodable.
func NewUint64(ty reflect.Type) *Uint64 {
	checkKind(ty, "64 bit integer", reflect.Uint64, reflect.Int64)
	return &Uint64{
		ty: ty,
	}
}

// Uint64 is an Encodable for uint64s and int64s.
type Uint64 struct {
	ty   reflect.Type
	buff [8]byte
}

// Size implements Encodable.
func (e *Uint64) Size() int { return 8 }

// Type implements Encodable.
func (e *Uint64) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Uint64) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint64(e.buff[:], *(*uint64)(ptr))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Uint64) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	*(*uint64)(ptr) = encio.BigEndian.Uint64(e.buff[:])
	return nil
}

// NewInt returns a new int Encodable.
func NewInt(ty reflect.Type) *Int {
	checkKind(ty, "int", reflect.Int)
	return &Int{
		ty: ty,
	}
}

// Int is an Encodable for ints.
// ints are always encoded as 64 bit, so the encoding doesn't depend on the machine.
// Decoding a value that doesn't fit in a 32 bit int is an encio.ErrMalformed error.
type Int struct {
	ty   reflect.Type
	buff [8]byte
}

// Size implements Encodable.
func (e *Int) Size() int { return 8 }

// Type implements Encodable.
func (e *Int) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Int) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint64(e.buff[:], uint64(int64(*(*int)(ptr))))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Int) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	i := int64(encio.BigEndian.Uint64(e.buff[:]))
	if int64(int(i)) != i {
		return encio.NewIOError(encio.ErrMalformed, fmt.Sprintf("%v overflows int", i), r.Offset())
	}
	*(*int)(ptr) = int(i)
	return nil
}

// NewUint returns a new uint Encodable.
func NewUint(ty reflect.Type) *Uint {
	checkKind(ty, "uint", reflect.Uint, reflect.Uintptr)
	return &Uint{
		ty: ty,
	}
}

// Uint is an Encodable for uints and uintptrs.
// They are always encoded as 64 bit, so the encoding doesn't depend on the machine.
// Decoding a value that doesn't fit in a 32 bit uint is an encio.ErrMalformed error.
type Uint struct {
	ty   reflect.Type
	buff [8]byte
}

// Size implements Encodable.
func (e *Uint) Size() int { return 8 }

// Type implements Encodable.
func (e *Uint) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Uint) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint64(e.buff[:], uint64(*(*uint)(ptr)))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Uint) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	i := encio.BigEndian.Uint64(e.buff[:])
	if uint64(uint(i)) != i {
		return encio.NewIOError(encio.ErrMalformed, fmt.Sprintf("%v overflows uint", i), r.Offset())
	}
	*(*uint)(ptr) = uint(i)
	return nil
}
