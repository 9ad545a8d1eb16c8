package encodable

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/posenc/encio"
)

// Source is a generator of Encodables. Compound type Encodables take Source as an argument upon creation,
// and use it for the generation of their element types.
// **The Source is responsible for resolving recursive types**.
type Source interface {
	// NewEncodable returns a new Encodable.
	// Source should take care to avoid infinite recursion, taking note of when it is called to create an Encodable from inside the same Encodable's creation function.
	// The returned Encodable may not be de-referenced during creation; Source may fill it in after the call returns.
	//
	// The Source passed to NewEncodable is passed to the Encodable that it creates. It is used by wrapping Sources to pass themselves to new Encodables,
	// so they don't loose control of element Encodable generation. If nil, the receiver is used.
	NewEncodable(reflect.Type, Config, Source) *Encodable
}

// SourceFromFunc creates a source using a function. It is mostly used for spoofing tests, but can do other things.
// The function is handed the Source to build element Encodables with; it substitutes itself if NewEncodable is called with a nil source.
func SourceFromFunc(newEncodable func(reflect.Type, Config, Source) Encodable) Source {
	return funcSource{newEncodable: newEncodable}
}

type funcSource struct {
	newEncodable func(reflect.Type, Config, Source) Encodable
}

func (s funcSource) NewEncodable(ty reflect.Type, config Config, source Source) *Encodable {
	if source == nil {
		source = s
	}
	enc := s.newEncodable(ty, config, source)
	return &enc
}

// NewSource returns the standard Source: New, with recursive types resolved by RecursiveSource.
// Each call returns an independent Source; Encodables it creates share state and must not be used concurrently.
func NewSource() *RecursiveSource {
	return NewRecursiveSource(SourceFromFunc(New))
}

// New returns a new Encodable for ty, creating element Encodables with src.
// It panics with an encio.Error wrapping encio.ErrBadType if ty cannot be encoded,
// including types that contain themselves with no slice or union between.
func New(ty reflect.Type, config Config, src Source) Encodable {
	switch ty {
	case uint128Type, int128Type:
		return NewWord128(ty)
	}

	switch ty.Kind() {
	case reflect.Struct, reflect.Array, reflect.Ptr:
		checkFinite(ty, config)
	}

	switch ty.Kind() {
	// Number types
	case reflect.Uint8, reflect.Int8:
		return NewUint8(ty)
	case reflect.Uint16, reflect.Int16:
		return NewUint16(ty)
	case reflect.Uint32, reflect.Int32:
		return NewUint32(ty)
	case reflect.Uint64, reflect.Int64:
		return NewUint64(ty)
	case reflect.Int:
		return NewInt(ty)
	case reflect.Uint, reflect.Uintptr:
		return NewUint(ty)
	case reflect.Float32:
		return NewFloat32(ty)
	case reflect.Float64:
		return NewFloat64(ty)
	case reflect.Complex64:
		return NewComplex64(ty)
	case reflect.Complex128:
		return NewComplex128(ty)

	// Misc types
	case reflect.Bool:
		return NewBool(ty)
	case reflect.String:
		return NewString(ty, config)

	// Compound-Types
	case reflect.Array:
		return NewArray(ty, config, src)
	case reflect.Slice:
		return NewSlice(ty, config, src)
	case reflect.Ptr:
		return NewPointer(ty, config, src)
	case reflect.Struct:
		return NewStruct(ty, config, src)
	case reflect.Interface:
		return NewUnion(ty, config, src)

	default:
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot create encodable for type %v", ty), 0))
	}
}
