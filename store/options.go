package store

import (
	"io/fs"

	"github.com/stewi1014/posenc"
)

// DefaultMaxSize is the default limit on the decompressed size of a stored value.
const DefaultMaxSize = 1 << 30

// Option configures Save, Load and LoadInto.
type Option func(*options)

type options struct {
	compression Compression
	mode        fs.FileMode
	maxSize     uint64
	config      *posenc.Config
}

func newOptions(opts []Option) *options {
	o := &options{
		compression: None,
		mode:        0o644,
		maxSize:     DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCompression compresses the stored value with c, adding a header and checksum.
// A file must be loaded with compression if and only if it was saved with it; the algorithm itself is read from the file.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithFileMode sets the permissions of files created by Save. The default is 0644.
func WithFileMode(mode fs.FileMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithMaxSize bounds the decompressed size Load accepts. The default is DefaultMaxSize.
func WithMaxSize(n uint64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// WithConfig sets the encoding configuration. It must match between Save and Load.
func WithConfig(config *posenc.Config) Option {
	return func(o *options) {
		o.config = config
	}
}
