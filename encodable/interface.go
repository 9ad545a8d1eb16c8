package encodable

import (
	"fmt"
	"io"
	"reflect"

	"github.com/stewi1014/posenc/encio"
)

// Encode calls enc.Encode with the value held in v, checking for type equality.
// v may be a value of the Encodable's type or a non-nil pointer to one.
func Encode(enc Encodable, v any, w io.Writer) error {
	val := reflect.ValueOf(v)
	switch {
	case val.Kind() == reflect.Ptr && val.Type().Elem() == enc.Type() && enc.Type().Kind() != reflect.Ptr:
		if val.IsNil() {
			return encio.NewError(encio.ErrNilPointer, fmt.Sprintf("cannot encode nil %v", val.Type()), 0)
		}
		return enc.Encode(val.UnsafePointer(), w)

	case val.IsValid() && val.Type() == enc.Type():
		cp := reflect.New(enc.Type())
		cp.Elem().Set(val)
		return enc.Encode(cp.UnsafePointer(), w)

	default:
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot encode %T with %v Encodable", v, enc.Type()), 0)
	}
}

// Decode decodes into the value that ptr points to, which must be a non-nil pointer to the Encodable's type.
func Decode(enc Encodable, ptr any, r encio.Reader) error {
	val := reflect.ValueOf(ptr)
	if val.Kind() != reflect.Ptr || val.Type().Elem() != enc.Type() {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot decode into %T with %v Encodable; need *%v", ptr, enc.Type(), enc.Type()), 0)
	}
	if val.IsNil() {
		return encio.NewError(encio.ErrNilPointer, fmt.Sprintf("cannot decode into nil %T", ptr), 0)
	}
	return enc.Decode(val.UnsafePointer(), r)
}
