package encodable

import (
	"fmt"

	"github.com/stewi1014/posenc/encio"
)

// Config contains settings for the generation of a new Encodable.
// Some Encodables do nothing with Config, and some require information from it.
//
// Config *must* be the same for Encoder and Decoder; it changes which fields are on the wire.
// The zero Config is usable.
type Config struct {
	// MaxAlloc bounds the memory of a single slice or string.
	// Decoding rejects lengths over it before anything is allocated,
	// and encoding refuses values over it, as they could not be decoded.
	// Both are encio.ErrMalformed errors. Zero means encio.TooBig.
	MaxAlloc uintptr

	// IncludeUnexported will include unexported struct fields in the encoded data.
	IncludeUnexported bool

	// StructTag overrides the struct tag used for field inclusion. Empty means StructTag.
	StructTag string

	// Unions resolves interface types to their variants. Nil means DefaultUnions.
	Unions *UnionRegistry
}

// String returns a string unique to the given configuration.
func (c Config) String() string {
	return fmt.Sprintf("Config(MaxAlloc: %v, IncludeUnexported: %v, StructTag: %q, Unions: %p)",
		c.maxAlloc(), c.IncludeUnexported, c.structTag(), c.unions())
}

func (c Config) maxAlloc() uintptr {
	if c.MaxAlloc == 0 {
		return encio.TooBig
	}
	return c.MaxAlloc
}

func (c Config) structTag() string {
	if c.StructTag == "" {
		return StructTag
	}
	return c.StructTag
}

func (c Config) unions() *UnionRegistry {
	if c.Unions == nil {
		return DefaultUnions
	}
	return c.Unions
}
