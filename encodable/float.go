package encodable

// Float & Complex type encoders.
// Floats are written as their IEEE-754 bits, big-endian. Complex numbers are the real part followed by the imaginary part.

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewFloat32 returns a new float32 Encodable.
func NewFloat32(ty reflect.Type) *Float32 {
	if ty.Kind() != reflect.Float32 {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of float32 kind", ty.String()), 0))
	}
	return &Float32{
		ty: ty,
	}
}

// Float32 is an Encodable for float32s.
type Float32 struct {
	ty   reflect.Type
	buff [4]byte
}

// Size implemenets Encodable.
func (e *Float32) Size() int { return 4 }

// Type implements Encodable.
func (e *Float32) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Float32) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint32(e.buff[:], *(*uint32)(ptr))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Float32) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}
	*(*uint32)(ptr) = encio.BigEndian.Uint32(e.buff[:])
	return nil
}

// NewFloat64 returns a new float64 Encodable.
func NewFloat64(ty reflect.Type) *Float64 {
	if ty.Kind() != reflect.Float64 {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of float64 kind", ty.String()), 0))
	}
	return &Float64{
		ty: ty,
	}
}

// Float64 is an Encodable for float64s.
type Float64 struct {
	ty   reflect.Type
	buff [8]byte
}

// Size implemenets Encodable.
func (e *Float64) Size() int { return 8 }

// Type implements Encodable.
func (e *Float64) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Float64) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	encio.BigEndian.PutUint64(e.buff[:], *(*uint64)(ptr))
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Float64) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}
	*(*uint64)(ptr) = encio.BigEndian.Uint64(e.buff[:])
	return nil
}

// NewComplex64 returns a new complex64 Encodable.
func NewComplex64(ty reflect.Type) *Complex64 {
	if ty.Kind() != reflect.Complex64 {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of complex64 kind", ty.String()), 0))
	}
	return &Complex64{
		ty: ty,
	}
}

// Complex64 is an Encodable for complex64s.
type Complex64 struct {
	ty   reflect.Type
	buff [8]byte
}

// Size implemenets Encodable.
func (e *Complex64) Size() int { return 8 }

// Type implements Encodable.
func (e *Complex64) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Complex64) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	parts := (*[2]uint32)(ptr)
	encio.BigEndian.PutUint32(e.buff[:4], parts[0])
	encio.BigEndian.PutUint32(e.buff[4:], parts[1])
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Complex64) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}
	parts := (*[2]uint32)(ptr)
	parts[0] = encio.BigEndian.Uint32(e.buff[:4])
	parts[1] = encio.BigEndian.Uint32(e.buff[4:])
	return nil
}

// NewComplex128 returns a new complex128 Encodable.
func NewComplex128(ty reflect.Type) *Complex128 {
	if ty.Kind() != reflect.Complex128 {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of complex128 kind", ty.String()), 0))
	}
	return &Complex128{
		ty: ty,
	}
}

// Complex128 is an Encodable for complex128s.
type Complex128 struct {
	ty   reflect.Type
	buff [16]byte
}

// Size implemenets Encodable.
func (e *Complex128) Size() int { return 16 }

// Type implements Encodable.
func (e *Complex128) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Complex128) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	parts := (*[2]uint64)(ptr)
	encio.BigEndian.PutUint64(e.buff[:8], parts[0])
	encio.BigEndian.PutUint64(e.buff[8:], parts[1])
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Complex128) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}
	parts := (*[2]uint64)(ptr)
	parts[0] = encio.BigEndian.Uint64(e.buff[:8])
	parts[1] = encio.BigEndian.Uint64(e.buff[8:])
	return nil
}
