package encodable_test

import (
	"math"
	"math/big"
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/posenc/encodable"
)

func TestWireFormat(t *testing.T) {
	testCases := []struct {
		desc string
		v    any
		want []byte
	}{
		{"uint16 big-endian", uint16(0x0102), []byte{0x01, 0x02}},
		{"int32 two's complement", int32(-2), []byte{0xFF, 0xFF, 0xFF, 0xFE}},
		{"int8", int8(-1), []byte{0xFF}},
		{"int is 64 bit", int(1), []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{"uint is 64 bit", uint(0x0102), []byte{0, 0, 0, 0, 0, 0, 0x01, 0x02}},
		{"int64 min", int64(math.MinInt64), []byte{0x80, 0, 0, 0, 0, 0, 0, 0}},
		{"float32", float32(1), []byte{0x3F, 0x80, 0, 0}},
		{"float64", float64(-2), []byte{0xC0, 0, 0, 0, 0, 0, 0, 0}},
		{"complex64 real then imaginary", complex64(complex(1, -2)), []byte{0x3F, 0x80, 0, 0, 0xC0, 0, 0, 0}},
		{"true", true, []byte{1}},
		{"false", false, []byte{0}},
		{
			"uint128",
			encodable.Uint128{Hi: 0x0102030405060708, Lo: 0x090A0B0C0D0E0F10},
			[]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		},
		{
			"int128 minus one",
			encodable.Int128{Hi: -1, Lo: math.MaxUint64},
			[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{"string", "hé", []byte{0, 0, 0, 0, 0, 0, 0, 3, 'h', 0xC3, 0xA9}},
		{"array has no length", [3]uint8{7, 8, 9}, []byte{7, 8, 9}},
		{"bytes", []uint8{5, 9}, []byte{0, 0, 0, 0, 0, 0, 0, 2, 5, 9}},
		{"matrix rows in order", [2][2]int8{{1, 2}, {3, 4}}, []byte{1, 2, 3, 4}},
		{"pointer is transparent", &[]int16{-1}[0], []byte{0xFF, 0xFF}},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			enc := newEncodable(reflect.TypeOf(tC.v), encodable.Config{})
			td.Cmp(t, encode(t, enc, tC.v), tC.want)

			got, _, err := decode(enc, tC.want)
			td.CmpNoError(t, err)
			td.Cmp(t, got, tC.v)
		})
	}
}

func TestBoolNonzero(t *testing.T) {
	enc := newEncodable(reflect.TypeOf(false), encodable.Config{})
	for _, b := range []byte{1, 2, 0x80, 0xFF} {
		got, _, err := decode(enc, []byte{b})
		td.CmpNoError(t, err)
		td.Cmp(t, got, true, "%#x", b)
	}
}

func TestNamedIntegers(t *testing.T) {
	type level int16
	type flags uint8

	enc := newEncodable(reflect.TypeOf(level(0)), encodable.Config{})
	td.Cmp(t, encode(t, enc, level(-3)), []byte{0xFF, 0xFD})

	enc = newEncodable(reflect.TypeOf(flags(0)), encodable.Config{})
	got, _, err := decode(enc, []byte{0x81})
	td.CmpNoError(t, err)
	td.Cmp(t, got, flags(0x81))
}

func TestWord128Big(t *testing.T) {
	two127 := new(big.Int).Lsh(big.NewInt(1), 127)

	testCases := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(math.MinInt64),
		new(big.Int).SetUint64(math.MaxUint64),
		new(big.Int).Neg(two127),
		new(big.Int).Sub(two127, big.NewInt(1)),
	}

	for _, i := range testCases {
		td.Cmp(t, encodable.Int128FromBig(i).Big().String(), i.String())
	}

	td.Cmp(t, encodable.Int128FromBig(big.NewInt(-1)), encodable.Int128{Hi: -1, Lo: math.MaxUint64})
	td.Cmp(t, encodable.Uint128FromBig(big.NewInt(-1)), encodable.Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64})
	td.Cmp(t, encodable.Uint128{Hi: 1}.String(), "18446744073709551616")
	td.Cmp(t, encodable.Int128{Hi: -1, Lo: math.MaxUint64 - 1}.String(), "-2")
}

func TestConstructorKind(t *testing.T) {
	td.CmpPanic(t, func() { encodable.NewUint32(reflect.TypeOf(uint16(0))) }, td.Isa((*error)(nil)))
	td.CmpPanic(t, func() { encodable.NewFloat64(reflect.TypeOf(float32(0))) }, td.Isa((*error)(nil)))
	td.CmpPanic(t, func() { encodable.NewWord128(reflect.TypeOf([16]byte{})) }, td.Isa((*error)(nil)))
	td.CmpPanic(t, func() { encodable.NewBool(reflect.TypeOf(0)) }, td.Isa((*error)(nil)))
	td.CmpNot(t, encodable.NewUint32(reflect.TypeOf(int32(0))), nil)
}
