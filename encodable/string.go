package encodable

import (
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewString returns a new string Encodable.
func NewString(ty reflect.Type, config Config) *String {
	if ty.Kind() != reflect.String {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not of string kind", ty.String()), 0))
	}

	return &String{
		ty:       ty,
		maxAlloc: config.maxAlloc(),
		len:      encio.NewUint64(),
	}
}

// String is an Encodable for strings.
// Strings are a uint64 byte count followed by the UTF-8 bytes.
// Invalid UTF-8 is refused in both directions.
type String struct {
	ty       reflect.Type
	maxAlloc uintptr
	len      encio.Uint64
}

// Size implemenets Encodable.
func (e *String) Size() int { return variableSize }

// Type implements Encodable.
func (e *String) Type() reflect.Type { return e.ty }

// Encode implemenets Encodable.
func (e *String) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	str := *(*string)(ptr)
	if !utf8.ValidString(str) {
		return encio.NewError(
			encio.ErrInvalidUTF8,
			fmt.Sprintf("cannot encode string with invalid UTF-8 at byte %v", invalidUTF8(str)),
			0,
		)
	}

	if tooBig(uint64(len(str)), 1, e.maxAlloc) {
		return encio.NewError(
			encio.ErrMalformed,
			fmt.Sprintf("cannot encode string of length %v, it would be too big to decode", len(str)),
			0,
		)
	}
	if err := e.len.Encode(w, uint64(len(str))); err != nil || len(str) == 0 {
		return err
	}

	return encio.Write(unsafe.Slice(unsafe.StringData(str), len(str)), w)
}

// Decode implemenets Encodable.
func (e *String) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)

	l, err := e.len.Decode(r)
	if err != nil {
		return err
	}

	if tooBig(l, 1, e.maxAlloc) {
		return encio.NewIOError(
			encio.ErrMalformed,
			fmt.Sprintf("string with length %v is too big", l),
			r.Offset(),
		)
	}

	buff, err := encio.ReadBytes(r, int(l))
	if err != nil {
		return err
	}

	if !utf8.Valid(buff) {
		i := invalidUTF8(string(buff))
		return encio.NewIOError(
			encio.ErrInvalidUTF8,
			fmt.Sprintf("invalid UTF-8 at byte %v of %v byte string", i, l),
			r.Offset()-int64(l)+int64(i),
		)
	}

	// buff is never used again.
	*(*string)(ptr) = unsafe.String(unsafe.SliceData(buff), len(buff))
	return nil
}

// invalidUTF8 returns the index of the first invalid UTF-8 sequence in str, or -1.
func invalidUTF8(str string) int {
	for i, r := range str {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(str[i:]); size == 1 {
				return i
			}
		}
	}
	return -1
}
