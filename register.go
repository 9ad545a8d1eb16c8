package posenc

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

// DefaultUnions is the UnionRegistry used when Config.Unions is nil.
var DefaultUnions = encodable.DefaultUnions

// RegisterUnion registers the interface type I as a union of the types of variants,
// making I encodable. A variant's discriminant is its position in the list.
//
//	posenc.RegisterUnion[Shape](Empty{}, Circle{}, Rect{})
//
// It is a shortcut for RegisterUnionIn with DefaultUnions.
func RegisterUnion[I any](variants ...I) error {
	return RegisterUnionIn[I](DefaultUnions, variants...)
}

// RegisterUnionIn registers the interface type I as a union of the types of variants in reg.
// The variant values themselves are only used for their types.
func RegisterUnionIn[I any](reg *encodable.UnionRegistry, variants ...I) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	types := make([]reflect.Type, len(variants))
	for i, v := range variants {
		types[i] = reflect.TypeOf(v)
		if types[i] == nil {
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("variant %v of %v is a nil interface", i, iface), 0)
		}
	}

	return reg.Register(iface, types...)
}

// MustRegisterUnion is like RegisterUnion but panics on error.
// It simplifies registering unions in package variable initialisation.
func MustRegisterUnion[I any](variants ...I) {
	if err := RegisterUnion[I](variants...); err != nil {
		panic(err)
	}
}
