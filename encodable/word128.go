package encodable

import (
	"fmt"
	"io"
	"math/big"
	"reflect"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

var (
	uint128Type = reflect.TypeOf(Uint128{})
	int128Type  = reflect.TypeOf(Int128{})
)

// Uint128 is an unsigned 128 bit integer.
type Uint128 struct {
	Hi, Lo uint64
}

// Uint128FromBig returns the low 128 bits of i.
func Uint128FromBig(i *big.Int) Uint128 {
	var buff [16]byte
	new(big.Int).And(i, mask128).FillBytes(buff[:])
	return Uint128{
		Hi: encio.BigEndian.Uint64(buff[:8]),
		Lo: encio.BigEndian.Uint64(buff[8:]),
	}
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	hi := new(big.Int).SetUint64(u.Hi)
	return hi.Lsh(hi, 64).Or(hi, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string { return u.Big().String() }

// Int128 is a signed, two's complement 128 bit integer.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128FromBig returns i truncated to 128 bits, two's complement.
func Int128FromBig(i *big.Int) Int128 {
	u := Uint128FromBig(i)
	return Int128{Hi: int64(u.Hi), Lo: u.Lo}
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := Uint128{Hi: uint64(i.Hi), Lo: i.Lo}.Big()
	if i.Hi < 0 {
		b.Sub(b, two128)
	}
	return b
}

func (i Int128) String() string { return i.Big().String() }

var (
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	mask128 = new(big.Int).Sub(two128, big.NewInt(1))
)

// NewWord128 returns a new Encodable for Uint128 or Int128.
func NewWord128(ty reflect.Type) *Word128 {
	if ty != uint128Type && ty != int128Type {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a 128 bit integer", ty.String()), 0))
	}
	return &Word128{
		ty: ty,
	}
}

// Word128 is an Encodable for Uint128 and Int128; 16 bytes, big-endian.
type Word128 struct {
	ty   reflect.Type
	buff [16]byte
}

// Size implements Encodable.
func (e *Word128) Size() int { return 16 }

// Type implements Encodable.
func (e *Word128) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Word128) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)
	u := (*Uint128)(ptr)
	encio.BigEndian.PutUint64(e.buff[:8], u.Hi)
	encio.BigEndian.PutUint64(e.buff[8:], u.Lo)
	return encio.Write(e.buff[:], w)
}

// Decode implements Encodable.
func (e *Word128) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)
	if err := r.ReadFull(e.buff[:]); err != nil {
		return err
	}

	u := (*Uint128)(ptr)
	u.Hi = encio.BigEndian.Uint64(e.buff[:8])
	u.Lo = encio.BigEndian.Uint64(e.buff[8:])
	return nil
}
