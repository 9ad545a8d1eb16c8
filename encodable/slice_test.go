package encodable_test

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

func lengthPrefix(n uint64) []byte {
	return encio.BigEndian.AppendUint64(nil, n)
}

func decodeInto(enc encodable.Encodable, ptr any, data []byte) error {
	return encodable.Decode(enc, ptr, encio.NewReader(bytes.NewReader(data)))
}

func TestSliceEmpty(t *testing.T) {
	enc := newEncodable(reflect.TypeOf([]int32(nil)), encodable.Config{})

	td.Cmp(t, encode(t, enc, []int32(nil)), lengthPrefix(0))
	td.Cmp(t, encode(t, enc, []int32{}), lengthPrefix(0))

	var nilSlice []int32
	td.CmpNoError(t, decodeInto(enc, &nilSlice, lengthPrefix(0)))
	td.CmpNil(t, nilSlice)

	nonNil := []int32{1, 2, 3}
	td.CmpNoError(t, decodeInto(enc, &nonNil, lengthPrefix(0)))
	td.CmpNotNil(t, nonNil)
	td.CmpLen(t, nonNil, 0)
}

func TestSliceReuse(t *testing.T) {
	enc := newEncodable(reflect.TypeOf([]uint16(nil)), encodable.Config{})
	data := encode(t, enc, []uint16{7, 8})

	dst := make([]uint16, 5, 10)
	backing := &dst[:1][0]
	td.CmpNoError(t, decodeInto(enc, &dst, data))
	td.Cmp(t, dst, []uint16{7, 8})
	td.CmpTrue(t, &dst[0] == backing, "existing capacity is reused")
}

func TestSliceTooBig(t *testing.T) {
	config := encodable.Config{MaxAlloc: 16}
	enc := newEncodable(reflect.TypeOf([]uint32(nil)), config)

	data := append(lengthPrefix(5), make([]byte, 20)...)
	dst := []uint32{1}
	err := decodeInto(enc, &dst, data)
	td.CmpTrue(t, errors.Is(err, encio.ErrMalformed), err)
	td.CmpTrue(t, encio.IsRecoverable(err))
	td.Cmp(t, dst, []uint32{1}, "destination untouched")

	data = append(lengthPrefix(4), make([]byte, 16)...)
	td.CmpNoError(t, decodeInto(enc, &dst, data))
	td.Cmp(t, dst, []uint32{0, 0, 0, 0})

	str := newEncodable(reflect.TypeOf(""), config)
	var s string
	err = decodeInto(str, &s, append(lengthPrefix(17), make([]byte, 17)...))
	td.CmpTrue(t, errors.Is(err, encio.ErrMalformed), err)

	bytesEnc := newEncodable(reflect.TypeOf([]byte(nil)), encodable.Config{})
	var b []byte
	err = decodeInto(bytesEnc, &b, lengthPrefix(1<<62))
	td.CmpTrue(t, errors.Is(err, encio.ErrMalformed), err)
}

func TestEncodeTooBig(t *testing.T) {
	config := encodable.Config{MaxAlloc: 16}

	testCases := []struct {
		name   string
		ty     reflect.Type
		fits   any
		tooBig any
	}{
		{"uint32s", reflect.TypeOf([]uint32(nil)), []uint32{1, 2, 3, 4}, []uint32{1, 2, 3, 4, 5}},
		{"bytes", reflect.TypeOf([]byte(nil)), make([]byte, 16), make([]byte, 17)},
		{"string", reflect.TypeOf(""), "sixteen chars ok", "seventeen chars!!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			enc := newEncodable(tc.ty, config)

			buff := new(bytes.Buffer)
			err := encodable.Encode(enc, tc.tooBig, buff)
			td.CmpTrue(t, errors.Is(err, encio.ErrMalformed), err)
			td.Cmp(t, buff.Len(), 0, "nothing written")

			got, _, err := decode(enc, encode(t, enc, tc.fits))
			td.CmpNoError(t, err)
			td.Cmp(t, got, tc.fits)
		})
	}
}

func TestSliceLyingLength(t *testing.T) {
	// A large declared length, followed by far less data.
	data := append(lengthPrefix(1<<20), make([]byte, 16)...)

	for _, ty := range []reflect.Type{
		reflect.TypeOf([]uint64(nil)),
		reflect.TypeOf([]byte(nil)),
		reflect.TypeOf([]point(nil)),
	} {
		enc := newEncodable(ty, encodable.Config{})
		dst := reflect.New(ty)
		err := decodeInto(enc, dst.Interface(), data)
		td.CmpTrue(t, errors.Is(err, io.ErrUnexpectedEOF), "%v: %v", ty, err)
		td.CmpTrue(t, dst.Elem().IsNil(), "%v: destination untouched", ty)
	}
}

func TestSliceGrowth(t *testing.T) {
	// Enough elements that decoding grows the slice several times.
	want := make([]int64, 50000)
	for i := range want {
		want[i] = int64(i) * -3
	}

	enc := newEncodable(reflect.TypeOf(want), encodable.Config{})
	got, n, err := decode(enc, encode(t, enc, want))
	td.CmpNoError(t, err)
	td.Cmp(t, n, int64(8+8*len(want)))
	td.Cmp(t, got, want)
}

func TestSliceZeroSizeElements(t *testing.T) {
	enc := newEncodable(reflect.TypeOf([]struct{}(nil)), encodable.Config{})
	data := encode(t, enc, make([]struct{}, 3))
	td.Cmp(t, data, lengthPrefix(3))

	got, _, err := decode(enc, data)
	td.CmpNoError(t, err)
	td.CmpLen(t, got, 3)
}
