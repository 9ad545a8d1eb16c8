package posenc

import (
	"errors"
	"reflect"
	"sync"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

// encodables caches a thread safe Encodable per type and configuration.
var encodables sync.Map // map[encodable.EncID]*encodable.Concurrent

// getEncodable returns the shared Encodable for ty.
// Types that cannot be encoded return the encio.Error that creating their Encodable panicked with.
func getEncodable(ty reflect.Type, config encodable.Config) (*encodable.Concurrent, error) {
	id := encodable.EncID{Type: ty, Config: config}
	if enc, ok := encodables.Load(id); ok {
		return enc.(*encodable.Concurrent), nil
	}

	first, err := newEncodable(ty, config)
	if err != nil {
		return nil, err
	}

	var once sync.Once
	enc := encodable.NewConcurrent(func() encodable.Encodable {
		var e encodable.Encodable
		once.Do(func() { e, first = first, nil })
		if e != nil {
			return e
		}
		// Creation already succeeded once, and union registrations never change.
		return *encodable.NewSource().NewEncodable(ty, config, nil)
	})

	actual, _ := encodables.LoadOrStore(id, enc)
	return actual.(*encodable.Concurrent), nil
}

// newEncodable creates an Encodable for ty, returning creation panics as errors.
func newEncodable(ty reflect.Type, config encodable.Config) (enc encodable.Encodable, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok || !errors.As(rerr, new(encio.Error)) {
				panic(r)
			}
			err = rerr
		}
	}()

	return *encodable.NewSource().NewEncodable(ty, config, nil), nil
}
