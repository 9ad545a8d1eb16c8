package encodable

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// MaxVariants is the most variants a union can have; the discriminant is a single byte.
const MaxVariants = 256

// ErrAlreadyRegistered is returned when registering variants for an interface type that already has them.
var ErrAlreadyRegistered = errors.New("union already registered")

// DefaultUnions is the UnionRegistry used when Config.Unions is nil.
var DefaultUnions = NewUnionRegistry()

// NewUnionRegistry returns a new, empty UnionRegistry.
func NewUnionRegistry() *UnionRegistry {
	return &UnionRegistry{
		unions: make(map[reflect.Type]*variants),
	}
}

// UnionRegistry holds the variants of interface types, making them encodable as tagged unions.
// A variant's discriminant is its position in the registered list; reordering variants changes the encoding.
// It is safe for concurrent use.
type UnionRegistry struct {
	mutex  sync.RWMutex
	unions map[reflect.Type]*variants
}

type variants struct {
	types []reflect.Type
	index map[reflect.Type]int
}

// Register registers the variants of the interface type iface.
// Each variant must be a concrete type implementing iface, listed once. There must be between 1 and MaxVariants of them.
func (u *UnionRegistry) Register(iface reflect.Type, types ...reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not an interface type", iface), 0)
	}
	if len(types) == 0 || len(types) > MaxVariants {
		return encio.NewError(
			encio.ErrBadType,
			fmt.Sprintf("%v has %v variants; unions must have between 1 and %v", iface, len(types), MaxVariants),
			0,
		)
	}

	v := &variants{
		types: make([]reflect.Type, len(types)),
		index: make(map[reflect.Type]int, len(types)),
	}
	for i, ty := range types {
		switch {
		case ty == nil || ty.Kind() == reflect.Interface:
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("variant %v of %v is not a concrete type", i, iface), 0)
		case !ty.Implements(iface):
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("variant %v does not implement %v", ty, iface), 0)
		}
		if _, ok := v.index[ty]; ok {
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("variant %v is listed more than once in %v", ty, iface), 0)
		}

		v.types[i] = ty
		v.index[ty] = i
	}

	u.mutex.Lock()
	defer u.mutex.Unlock()
	if _, ok := u.unions[iface]; ok {
		return fmt.Errorf("%w: %v", ErrAlreadyRegistered, iface)
	}
	u.unions[iface] = v
	return nil
}

// Variants returns the registered variants of iface in discriminant order, or nil if iface isn't registered.
func (u *UnionRegistry) Variants(iface reflect.Type) []reflect.Type {
	u.mutex.RLock()
	defer u.mutex.RUnlock()
	v, ok := u.unions[iface]
	if !ok {
		return nil
	}
	return append([]reflect.Type(nil), v.types...)
}

func (u *UnionRegistry) lookup(iface reflect.Type) (*variants, bool) {
	u.mutex.RLock()
	defer u.mutex.RUnlock()
	v, ok := u.unions[iface]
	return v, ok
}

// NewUnion returns a new union Encodable for the interface type ty.
// ty must be registered in config.Unions.
func NewUnion(ty reflect.Type, config Config, src Source) *Union {
	if ty.Kind() != reflect.Interface {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not an interface", ty), 0))
	}

	v, ok := config.unions().lookup(ty)
	if !ok {
		panic(encio.NewError(encio.ErrBadType, fmt.Sprintf("%v has no registered variants", ty), 0))
	}

	e := &Union{
		ty:       ty,
		variants: v,
		elems:    make([]*Encodable, len(v.types)),
		disc:     encio.NewUint8(),
	}
	for i, vty := range v.types {
		e.elems[i] = src.NewEncodable(vty, config, nil)
	}

	return e
}

// Union is an Encodable for interface types registered as unions.
// It writes the one byte discriminant of the held variant, then the variant.
//
// Encoding a nil interface is an encio.ErrNilPointer error, and a value of an unregistered type an encio.ErrBadType error.
// Decoding a discriminant with no variant is an encio.ErrBadDiscriminant error;
// the stream can't be trusted after it, see encio.IsFatal.
type Union struct {
	ty       reflect.Type
	variants *variants
	elems    []*Encodable
	disc     encio.Uint8
	sizing   bool
}

// Size implements Encodable.
// A union has a fixed size only if all of its variants have the same fixed size.
func (e *Union) Size() int {
	if e.sizing {
		return variableSize
	}
	e.sizing = true
	defer func() { e.sizing = false }()

	size := (*e.elems[0]).Size()
	for _, elem := range e.elems[1:] {
		if size < 0 {
			break
		}
		if (*elem).Size() != size {
			size = variableSize
		}
	}
	if size < 0 {
		return variableSize
	}
	return size + 1
}

// Type implements Encodable.
func (e *Union) Type() reflect.Type { return e.ty }

// Encode implements Encodable.
func (e *Union) Encode(ptr unsafe.Pointer, w io.Writer) error {
	checkPtr(ptr)

	i := reflect.NewAt(e.ty, ptr).Elem()
	if i.IsNil() {
		return encio.NewError(encio.ErrNilPointer, fmt.Sprintf("cannot encode nil %v", e.ty), 0)
	}

	held := i.Elem()
	idx, ok := e.variants.index[held.Type()]
	if !ok {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is not a registered variant of %v", held.Type(), e.ty), 0)
	}

	if err := e.disc.Encode(w, uint8(idx)); err != nil {
		return err
	}

	// Interface contents aren't addressable; encode from a copy.
	elem := reflect.New(held.Type())
	elem.Elem().Set(held)
	return (*e.elems[idx]).Encode(elem.UnsafePointer(), w)
}

// Decode implements Encodable.
// The interface is only set once the variant has decoded successfully.
func (e *Union) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	checkPtr(ptr)

	d, err := e.disc.Decode(r)
	if err != nil {
		return err
	}

	if int(d) >= len(e.elems) {
		return encio.NewError(
			encio.ErrBadDiscriminant,
			fmt.Sprintf("discriminant %v at offset %v is out of range for %v with %v variants", d, r.Offset()-1, e.ty, len(e.elems)),
			0,
		)
	}

	elem := reflect.New(e.variants.types[d])
	if err := (*e.elems[d]).Decode(elem.UnsafePointer(), r); err != nil {
		return err
	}

	reflect.NewAt(e.ty, ptr).Elem().Set(elem.Elem())
	return nil
}
