// Package encodable provides low-level methods for serialising golang data structures.
// It aims to be fast, modular and comprehensive, valuing runtime speed over creation overhead.
//
// Encodable is the primary implementation, and provides Encode() and Decode() functions for a specific type.
// Encodables for compound types are derived from the type's shape: structs encode their fields in declaration order,
// arrays and slices their elements in order, and registered interface types (unions) a discriminant byte followed by the held variant.
// There are no field tags or type information on the wire; the decoder must know the type.
package encodable

// I intend to keep a curated list of important notes to keep in mind while developing this part of posenc here.
//
// https://golang.org/pkg/unsafe/#Pointer; "Note that the pointer must point into an allocated object, so it may not be nil".
// Every instance of unsafe.Pointer that exists must always point towards a valid object.
//
// Recursive types share Encodable instances, so an Encodable can be re-entered through its own elements
// (a union holding a struct holding the same union). Scratch buffers must be finished with before calling element Encodables.

import (
	"io"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

const (
	// StructTag is the default struct tag that, when applied to a struct field, will force the field's inclusion or exclusion from encoding.
	// "-" excludes the field. Otherwise strconv.ParseBool() is used for parsing the tag value;
	// it accepts 1, t, T, TRUE, true, True, 0, f, F, FALSE, false, False.
	StructTag = "posenc"

	// variableSize is returned by Size for types without a fixed encoded size.
	variableSize = -1 << 31
)

// Encodable is an Encoder and Decoder for a specific type.
//
// Encodables are not assumed to be thread safe.
// Use NewConcurrent or higher level functions if concurrency is needed.
//
// In order to provide these assumptions, Encodables must
// 1. Only create element Encodables using the provided source.
// 1. Always pass the same Source they were given to element Encodables.
// 1. Never hold scratch state across calls to element Encodables; they may be re-entered.
// 1. Always read exactly what was written. Don't leave garbage in the stream for the next encodable, and don't read ahead.
//
// Encodables return two kinds of error.
// encio.IOError for io and corrupted data errors, and encio.Error for encoding errors.
// See posenc/encio/error.go
//
// The pointers passed to Encode and Decode must be pointers to an allocated instance of the Encodable's type, accessible by Type().
// Pointer encodables do not follow different semantics, and so must be given a non-nil pointer to the pointer they're encoding.
type Encodable interface {
	// Type returns the type that the Encodable encodes.
	Type() reflect.Type

	// Size returns the encoded size of the Encodable's type.
	// If Size returns <0, the size depends on the value.
	Size() int

	// Encode encodes the object at ptr to w.
	// It panics if ptr is nil.
	Encode(ptr unsafe.Pointer, w io.Writer) error

	// Decode decodes from r into the object at ptr.
	// Decode will only read what Encode wrote; no extra data is read.
	// It panics if ptr is nil.
	Decode(ptr unsafe.Pointer, r encio.Reader) error
}

// checkPtr panics if ptr is nil.
// As per the documentation of unsafe, unsafe.Pointer types cannot be nil at any time. See notes in encodable.go.
func checkPtr(ptr unsafe.Pointer) {
	if ptr == nil {
		panic(encio.NewError(encio.ErrNilPointer, "unsafe.Pointer types are never allowed to be nil as per https://golang.org/pkg/unsafe/", 1))
	}
}
