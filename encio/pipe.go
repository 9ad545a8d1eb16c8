package encio

import (
	"context"
	"io"
	"sync"
)

// NewPipe creates a new Pipe
func NewPipe() *Pipe {
	return &Pipe{
		wake: make(chan struct{}),
	}
}

// Pipe is a buffered, in-memory pipe. Writes never block; readers park until enough has been written.
// It implements AsyncReader, so a decode can suspend on it while another goroutine produces the stream,
// and io.Reader for blocking use.
//
// A call to Close results in subsequent calls to Write returning io.ErrClosedPipe,
// while reads will continue reading the buffer before returning io.EOF (or the error given to CloseWithError).
type Pipe struct {
	mutex  sync.Mutex
	buff   []byte
	off    int
	closed bool
	err    error

	// wake is closed and replaced whenever data arrives or the pipe closes.
	wake chan struct{}
}

// ReadExact implements AsyncReader.
func (p *Pipe) ReadExact(ctx context.Context, buff []byte) (int, error) {
	end := 0
	for {
		p.mutex.Lock()
		end += p.take(buff[end:])
		if end == len(buff) {
			p.mutex.Unlock()
			return end, nil
		}
		if p.closed {
			err := p.err
			p.mutex.Unlock()
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return end, err
		}
		wake := p.wake
		p.mutex.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return end, ctx.Err()
		}
	}
}

// Read implements io.Reader. It blocks until at least one byte is available or the pipe is closed.
func (p *Pipe) Read(buff []byte) (int, error) {
	if len(buff) == 0 {
		return 0, nil
	}

	for {
		p.mutex.Lock()
		if n := p.take(buff); n > 0 {
			p.mutex.Unlock()
			return n, nil
		}
		if p.closed {
			err := p.err
			p.mutex.Unlock()
			return 0, err
		}
		wake := p.wake
		p.mutex.Unlock()
		<-wake
	}
}

// Write implements io.Writer
func (p *Pipe) Write(buff []byte) (int, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return 0, io.ErrClosedPipe
	}

	if p.off == len(p.buff) {
		p.buff = p.buff[:0]
		p.off = 0
	}
	p.buff = append(p.buff, buff...)
	p.broadcast()
	return len(buff), nil
}

// Close implements io.Closer
func (p *Pipe) Close() error {
	return p.CloseWithError(nil)
}

// CloseWithError closes the pipe. Readers see err once the buffer is drained, or io.EOF if err is nil.
func (p *Pipe) CloseWithError(err error) error {
	if err == nil {
		err = io.EOF
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return nil
	}

	p.closed = true
	p.err = err
	p.broadcast()
	return nil
}

// Len returns the number of buffered, unread bytes.
func (p *Pipe) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.buff) - p.off
}

// take copies buffered data into buff.
// mutex must be held
func (p *Pipe) take(buff []byte) int {
	n := copy(buff, p.buff[p.off:])
	p.off += n
	return n
}

// mutex must be held
func (p *Pipe) broadcast() {
	close(p.wake)
	p.wake = make(chan struct{})
}
