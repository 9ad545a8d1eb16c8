package posenc

import (
	"github.com/stewi1014/posenc/encodable"
)

// Config defines configuration for Codecs, Encoders and Decoders.
// A nil *Config is the default configuration.
//
// Both ends of a stream must use the same Config; it changes which fields are on the wire.
type Config struct {
	// MaxAlloc bounds the memory of a single slice or string, when encoding and when decoding.
	// Longer sequences are rejected with encio.ErrMalformed. Zero means encio.TooBig.
	MaxAlloc uintptr

	// IncludeUnexported encodes unexported struct fields as well as exported ones.
	IncludeUnexported bool

	// StructTag is the struct tag read for field inclusion. Empty means "posenc".
	StructTag string

	// Unions holds the variants of interface types.
	// If nil, DefaultUnions is used, and interface types must be registered with RegisterUnion().
	Unions *encodable.UnionRegistry
}

func (c *Config) copyAndFill() encodable.Config {
	config := encodable.Config{}
	if c != nil {
		config = encodable.Config{
			MaxAlloc:          c.MaxAlloc,
			IncludeUnexported: c.IncludeUnexported,
			StructTag:         c.StructTag,
			Unions:            c.Unions,
		}
	}

	if config.Unions == nil {
		config.Unions = DefaultUnions
	}

	return config
}
