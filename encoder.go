package posenc

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/stewi1014/posenc/encio"
	"github.com/stewi1014/posenc/encodable"
)

// NewEncoder returns a new Encoder writing to w.
// config may be nil.
func NewEncoder(w io.Writer, config *Config) *Encoder {
	return &Encoder{
		w:      w,
		config: config.copyAndFill(),
	}
}

// Encoder writes a stream of values to an io.Writer.
// It is safe for concurrent use; each value is written with a single call to Write.
type Encoder struct {
	w      io.Writer
	config encodable.Config
	mutex  sync.Mutex
	buff   encio.Buffer
}

// Encode encodes the value pointed to by v.
func (e *Encoder) Encode(v any) error {
	if v == nil {
		return encio.NewError(encio.ErrNilPointer, "cannot encode nil interface", 0)
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("values must be passed by reference, got %v", val.Type()), 0)
	}
	if val.IsNil() {
		return encio.NewError(encio.ErrNilPointer, fmt.Sprintf("cannot encode nil %v", val.Type()), 0)
	}

	enc, err := getEncodable(val.Type().Elem(), e.config)
	if err != nil {
		return err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.buff.Reset()
	if err := enc.Encode(val.UnsafePointer(), &e.buff); err != nil {
		return err
	}
	return encio.Write(e.buff.Bytes(), e.w)
}
