package encodable

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewStruct returns a new struct Encodable.
func NewStruct(ty reflect.Type, config Config, src Source) *Struct {
	if ty.Kind() != reflect.Struct {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a struct", ty), 0))
	}

	fields := StructFields(ty, config)
	s := &Struct{
		ty:     ty,
		fields: make([]structField, len(fields)),
	}

	for i := range fields {
		s.fields[i].offset = fields[i].Offset
		s.fields[i].enc = src.NewEncodable(fields[i].Type, config, nil)
	}

	return s
}

// StructFields returns the fields of ty that are encoded, in declaration order.
//
// Exported fields are included, and unexported fields are not unless config.IncludeUnexported is set.
// The struct tag (config.StructTag, default "posenc") overrides this for a field;
// `posenc:"-"` or `posenc:"false"` skips it and `posenc:"true"` includes it.
// Blank fields are never encoded. Tags that fail to parse are ignored with a warning.
func StructFields(ty reflect.Type, config Config) []reflect.StructField {
	return structFields(ty, config, encio.Warnings)
}

func structFields(ty reflect.Type, config Config, warnings io.Writer) []reflect.StructField {
	tagName := config.structTag()
	fields := make([]reflect.StructField, 0, ty.NumField())
	for i := 0; i < ty.NumField(); i++ {
		field := ty.Field(i)
		if field.Name == "_" {
			continue
		}

		include := field.IsExported() || config.IncludeUnexported
		if tagStr, tagged := field.Tag.Lookup(tagName); tagged {
			if tagStr == "-" {
				include = false
			} else if parsed, err := strconv.ParseBool(tagStr); err != nil {
				fmt.Fprintf(warnings, "%v (decoding struct tag of field %v in %v)\n", err, field.Name, ty.String())
			} else {
				include = parsed
			}
		}

		if include {
			fields = append(fields, field)
		}
	}

	return fields
}

// Struct is an Encodable for structs.
// Fields are the concatenation of each included field's encoding, in declaration order, with nothing between them.
type Struct struct {
	ty     reflect.Type
	fields []structField
	sizing bool
}

type structField struct {
	offset uintptr
	enc    *Encodable
}

// Size implements Encodable.
func (e *Struct) Size() (size int) {
	if e.sizing {
		return variableSize
	}
	e.sizing = true
	defer func() { e.sizing = false }()

	for _, field := range e.fields {
		fsize := (*field.enc).Size()
		if fsize < 0 {
			return variableSize
		}
		size += fsize
	}
	return
}

// Type implements Encodable.
func (e *Struct) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Struct) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	for _, field := range e.fields {
		if err := (*field.enc).Encode(unsafe.Add(ptr, field.offset), w); err != nil {
			return err
		}
	}
	return nil
}

// Decode implements Encodable.
func (e *Struct) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	for _, field := range e.fields {
		if err := (*field.enc).Decode(unsafe.Add(ptr, field.offset), r); err != nil {
			return err
		}
	}
	return nil
}
