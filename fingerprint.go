package posenc

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the 64 bit xxHash of the encoding of v.
// Equal values of the same type have equal fingerprints on every machine.
func Fingerprint[T any](v T) (uint64, error) {
	codec, err := NewCodec[T]()
	if err != nil {
		return 0, err
	}
	return codec.Fingerprint(v)
}

// Fingerprint returns the 64 bit xxHash of the encoding of v.
func (c *Codec[T]) Fingerprint(v T) (uint64, error) {
	digest := xxhash.New()
	if err := c.Encode(v, digest); err != nil {
		return 0, err
	}
	return digest.Sum64(), nil
}
