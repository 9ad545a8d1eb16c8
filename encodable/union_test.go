package encodable_test

import (
	"errors"
	"io"
	"math"
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

type shape interface {
	area() float64
}

type empty struct{}

func (empty) area() float64 { return 0 }

type circle struct {
	R float64
}

func (c circle) area() float64 { return math.Pi * c.R * c.R }

type rect struct {
	W, H float32
}

func (r rect) area() float64 { return float64(r.W * r.H) }

type expr interface {
	eval() int64
}

type lit int64

func (l lit) eval() int64 { return int64(l) }

type neg struct {
	X expr
}

func (n neg) eval() int64 { return -n.X.eval() }

type add struct {
	L, R *expr
}

func (a add) eval() int64 { return (*a.L).eval() + (*a.R).eval() }

var (
	shapeType = reflect.TypeOf((*shape)(nil)).Elem()
	exprType  = reflect.TypeOf((*expr)(nil)).Elem()
)

func testUnions(t testing.TB) *encodable.UnionRegistry {
	reg := encodable.NewUnionRegistry()
	td.Require(t).CmpNoError(reg.Register(shapeType,
		reflect.TypeOf(empty{}),
		reflect.TypeOf(circle{}),
		reflect.TypeOf(rect{}),
	))
	td.Require(t).CmpNoError(reg.Register(exprType,
		reflect.TypeOf(lit(0)),
		reflect.TypeOf(neg{}),
		reflect.TypeOf(add{}),
	))
	return reg
}

func TestUnionWireFormat(t *testing.T) {
	enc := newEncodable(shapeType, encodable.Config{Unions: testUnions(t)})

	testCases := []struct {
		v    shape
		want []byte
	}{
		{empty{}, []byte{0}},
		{circle{R: 1}, []byte{1, 0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{rect{W: 1, H: -2}, []byte{2, 0x3F, 0x80, 0, 0, 0xC0, 0, 0, 0}},
	}

	for _, tC := range testCases {
		data := encode(t, enc, &tC.v)
		td.Cmp(t, data, tC.want, "%T", tC.v)

		got, n, err := decode(enc, data)
		td.CmpNoError(t, err)
		td.Cmp(t, got, tC.v)
		td.Cmp(t, n, int64(len(data)))
	}
}

func TestUnionBadDiscriminant(t *testing.T) {
	enc := newEncodable(shapeType, encodable.Config{Unions: testUnions(t)})

	for _, d := range []byte{3, 4, 0x80, 0xFF} {
		var dst shape = circle{R: 2}
		err := decodeInto(enc, &dst, []byte{d, 0, 0, 0, 0, 0, 0, 0, 0})

		td.CmpTrue(t, errors.Is(err, encio.ErrBadDiscriminant), err)
		td.CmpTrue(t, encio.IsFatal(err), "%#x is fatal", d)
		td.CmpFalse(t, encio.IsRecoverable(err))
		td.Cmp(t, dst, circle{R: 2}, "destination untouched")
	}
}

func TestUnionTruncatedVariant(t *testing.T) {
	enc := newEncodable(shapeType, encodable.Config{Unions: testUnions(t)})

	var dst shape = empty{}
	err := decodeInto(enc, &dst, []byte{1, 0x3F, 0xF0})
	td.CmpTrue(t, errors.Is(err, io.ErrUnexpectedEOF), err)
	td.CmpFalse(t, encio.IsFatal(err))
	td.Cmp(t, dst, empty{})
}

func TestUnionReplacesVariant(t *testing.T) {
	enc := newEncodable(shapeType, encodable.Config{Unions: testUnions(t)})

	var dst shape = rect{W: 1, H: 1}
	td.CmpNoError(t, decodeInto(enc, &dst, []byte{0}))
	td.Cmp(t, dst, empty{})
}

func TestUnionRecursive(t *testing.T) {
	enc := newEncodable(exprType, encodable.Config{Unions: testUnions(t)})
	td.CmpLt(t, enc.Size(), 0)

	box := func(e expr) *expr { return &e }

	// -(1 + -(2 + 3))
	var e expr = neg{X: add{
		L: box(lit(1)),
		R: box(neg{X: add{L: box(lit(2)), R: box(lit(3))}}),
	}}
	td.Cmp(t, e.eval(), int64(4))

	data := encode(t, enc, &e)
	td.Cmp(t, data[:2], []byte{1, 2}, "neg, then add")

	got, n, err := decode(enc, data)
	td.CmpNoError(t, err)
	td.Cmp(t, n, int64(len(data)))
	td.Cmp(t, got, e)
	td.Cmp(t, got.(expr).eval(), int64(4))
}

func TestUnionDeep(t *testing.T) {
	enc := newEncodable(exprType, encodable.Config{Unions: testUnions(t)})

	var e expr = lit(7)
	for i := 0; i < 1000; i++ {
		e = neg{X: e}
	}

	got, _, err := decode(enc, encode(t, enc, &e))
	td.CmpNoError(t, err)
	td.Cmp(t, got.(expr).eval(), int64(7))
}

type triangle struct{}

func (triangle) area() float64 { return 0 }

func TestUnionEncodeErrors(t *testing.T) {
	enc := newEncodable(shapeType, encodable.Config{Unions: testUnions(t)})

	var s shape
	err := encodable.Encode(enc, &s, io.Discard)
	td.CmpTrue(t, errors.Is(err, encio.ErrNilPointer), err)

	s = triangle{}
	err = encodable.Encode(enc, &s, io.Discard)
	td.CmpTrue(t, errors.Is(err, encio.ErrBadType), err)

	var c *circle
	s = c
	err = encodable.Encode(enc, &s, io.Discard)
	td.CmpTrue(t, errors.Is(err, encio.ErrBadType), "*circle isn't a variant: %v", err)
}

func TestUnionUnregistered(t *testing.T) {
	td.CmpPanic(t,
		func() { newEncodable(shapeType, encodable.Config{Unions: encodable.NewUnionRegistry()}) },
		td.Code(func(err error) bool { return errors.Is(err, encio.ErrBadType) }),
	)
}

func TestUnionRegister(t *testing.T) {
	reg := encodable.NewUnionRegistry()
	anyType := reflect.TypeOf((*any)(nil)).Elem()

	tooMany := make([]reflect.Type, encodable.MaxVariants+1)
	for i := range tooMany {
		tooMany[i] = reflect.ArrayOf(i, reflect.TypeOf(byte(0)))
	}

	badType := []struct {
		desc     string
		iface    reflect.Type
		variants []reflect.Type
	}{
		{"not an interface", reflect.TypeOf(circle{}), []reflect.Type{reflect.TypeOf(circle{})}},
		{"no variants", shapeType, nil},
		{"too many variants", anyType, tooMany},
		{"doesn't implement", shapeType, []reflect.Type{reflect.TypeOf(lit(0))}},
		{"duplicate", shapeType, []reflect.Type{reflect.TypeOf(empty{}), reflect.TypeOf(empty{})}},
		{"interface variant", anyType, []reflect.Type{shapeType}},
	}
	for _, tC := range badType {
		err := reg.Register(tC.iface, tC.variants...)
		td.CmpTrue(t, errors.Is(err, encio.ErrBadType), "%v: %v", tC.desc, err)
	}

	td.CmpNoError(t, reg.Register(anyType, tooMany[:encodable.MaxVariants]...))
	td.CmpLen(t, reg.Variants(anyType), encodable.MaxVariants)

	td.CmpNoError(t, reg.Register(shapeType, reflect.TypeOf(circle{}), reflect.TypeOf(&circle{})))
	err := reg.Register(shapeType, reflect.TypeOf(rect{}))
	td.CmpTrue(t, errors.Is(err, encodable.ErrAlreadyRegistered), err)

	variants := reg.Variants(shapeType)
	td.Cmp(t, variants, []reflect.Type{reflect.TypeOf(circle{}), reflect.TypeOf(&circle{})})
	variants[0] = nil
	td.Cmp(t, reg.Variants(shapeType)[0], reflect.TypeOf(circle{}), "Variants returns a copy")
	td.CmpNil(t, reg.Variants(exprType))
}

func TestUnionSize(t *testing.T) {
	reg := encodable.NewUnionRegistry()
	td.Require(t).CmpNoError(reg.Register(shapeType, reflect.TypeOf(circle{})))
	td.Cmp(t, newEncodable(shapeType, encodable.Config{Unions: reg}).Size(), 9)

	td.CmpLt(t, newEncodable(shapeType, encodable.Config{Unions: testUnions(t)}).Size(), 0)
}

func TestUnionPointerVariant(t *testing.T) {
	reg := encodable.NewUnionRegistry()
	td.Require(t).CmpNoError(reg.Register(shapeType, reflect.TypeOf(&circle{}), reflect.TypeOf(rect{})))
	enc := newEncodable(shapeType, encodable.Config{Unions: reg})

	var s shape = &circle{R: 0.5}
	got, _, err := decode(enc, encode(t, enc, &s))
	td.CmpNoError(t, err)
	td.Cmp(t, got, &circle{R: 0.5})
}
