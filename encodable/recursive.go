package encodable

import (
	"fmt"
	"io"
	"reflect"

	"github.com/stewi1014/posenc/encio"
)

// This file contains the logic for handling recursive types.

// NewRecursiveSource returns a new RecursiveSource.
//
// The provided Source can be 'dumb'; i.e. A big switch statement to create an Encodable for a type.
// It must respect the implementation details of Source; if it doesn't pass the source passed when creating an encodable,
// RecursiveSource cannot resolve recursive types.
func NewRecursiveSource(source Source) *RecursiveSource {
	return &RecursiveSource{
		source: source,
		seen:   make(map[EncID]*Encodable),
	}
}

// EncID is comparable struct representing an encodable of a particular type and configuration.
// It can be used as keys in maps of Encodables to confirm equality across Encodables.
type EncID struct {
	reflect.Type
	Config
}

// RecursiveSource safely creates Encodables for recursive types, and caches Encodables by type.
//
// When a type is requested while it is still being created, as happens for a union whose variant refers back to the union,
// the caller is given the Encodable that is being created. It is filled in before the outermost creation returns,
// so element Encodables must only dereference it when encoding or decoding, never while being created.
// Decoding recursion then follows the data; each level of nesting on the wire is one level of calls.
type RecursiveSource struct {
	source Source
	seen   map[EncID]*Encodable
}

// NewEncodable implements Source.
func (src *RecursiveSource) NewEncodable(ty reflect.Type, config Config, source Source) *Encodable {
	if source == nil {
		source = src
	}

	id := EncID{Type: ty, Config: config}
	if enc, ok := src.seen[id]; ok {
		// Either built, or under construction further up the stack.
		return enc
	}

	enc := new(Encodable)
	src.seen[id] = enc

	done := false
	defer func() {
		if !done {
			// Creation panicked; don't hand out the empty Encodable later.
			delete(src.seen, id)
		}
	}()

	built := src.source.NewEncodable(ty, config, source)
	*enc = *built
	done = true
	return enc
}

// checkFinite panics if a value of ty always contains another value of ty,
// that is, ty reaches itself through structs, non-empty arrays and pointers alone.
// No value of such a type can be encoded, as the chain only ends at a nil pointer,
// and decoding one would recurse without reading.
// Recursion through a slice or union is fine; the encoded length or variant ends it.
func checkFinite(ty reflect.Type, config Config) {
	seen := make(map[reflect.Type]bool)
	var reaches func(reflect.Type) bool
	reaches = func(t reflect.Type) bool {
		for _, next := range inlineTypes(t, config) {
			if next == ty {
				return true
			}
			if !seen[next] {
				seen[next] = true
				if reaches(next) {
					return true
				}
			}
		}
		return false
	}

	if reaches(ty) {
		panic(encio.NewError(
			encio.ErrBadType,
			fmt.Sprintf("%v contains itself without a slice or union between; it has no finite encoding", ty),
			1,
		))
	}
}

// inlineTypes returns the types whose encodings are always part of ty's encoding.
func inlineTypes(ty reflect.Type, config Config) []reflect.Type {
	switch ty.Kind() {
	case reflect.Ptr:
		return []reflect.Type{ty.Elem()}
	case reflect.Array:
		if ty.Len() > 0 {
			return []reflect.Type{ty.Elem()}
		}
	case reflect.Struct:
		if ty == uint128Type || ty == int128Type {
			return nil
		}
		fields := structFields(ty, config, io.Discard)
		types := make([]reflect.Type, len(fields))
		for i := range fields {
			types[i] = fields[i].Type
		}
		return types
	}
	return nil
}
