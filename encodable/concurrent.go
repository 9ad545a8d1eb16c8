package encodable

import (
	"io"
	"reflect"
	"sync"
	"unsafe"

	"github.com/stewi1014/posenc/encio"
)

// NewConcurrent returns a Concurrent Encodable, calling newFunc when it needs another Encodable.
// Encodables returned by newFunc must not share state with each other.
func NewConcurrent(newFunc func() Encodable) *Concurrent {
	return &Concurrent{
		new: newFunc,
	}
}

// Concurrent is a thread safe encodable.
// It functions as a drop in replacement for Encodables, keeping a cache of Encodables, only allowing a single call at a time on any one Encodable.
// If all cached Encodables are busy in a call, it creates a new Encodable, and calls it; It never blocks.
//
// A suspended Decode keeps its Encodable until it returns, so long suspensions cost one Encodable each, not a stalled caller.
type Concurrent struct {
	new func() Encodable

	// Mutex is used to secure encoders. We must be careful never to hold the mutex in a way which might block calls,
	// that is, it must only be held for the moment when we modify encoders, and released before any other action.
	encodersMutex sync.Mutex
	encoders      []Encodable
}

// Size implements Encodable.
func (e *Concurrent) Size() int {
	enc := e.get()
	defer e.put(enc)

	return enc.Size()
}

// Type implements Encodable.
func (e *Concurrent) Type() reflect.Type {
	enc := e.get()
	defer e.put(enc)

	return enc.Type()
}

// Encode implements Encodable.
func (e *Concurrent) Encode(ptr unsafe.Pointer, w io.Writer) error {
	enc := e.get()
	defer e.put(enc)

	return enc.Encode(ptr, w)
}

// Decode implements Encodable.
func (e *Concurrent) Decode(ptr unsafe.Pointer, r encio.Reader) error {
	enc := e.get()
	defer e.put(enc)

	return enc.Decode(ptr, r)
}

// get returns a new Encodable, releasing ownership to the caller.
func (e *Concurrent) get() Encodable {
	e.encodersMutex.Lock()
	l := len(e.encoders)
	if l > 0 {
		enc := e.encoders[l-1]
		e.encoders = e.encoders[:l-1]
		e.encodersMutex.Unlock()
		return enc
	}
	e.encodersMutex.Unlock()
	return e.new()
}

// ownership of enc is passed to put, no more calls can be made.
func (e *Concurrent) put(enc Encodable) {
	e.encodersMutex.Lock()
	e.encoders = append(e.encoders, enc)
	e.encodersMutex.Unlock()
}
