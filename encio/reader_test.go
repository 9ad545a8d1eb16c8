package encio_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"testing/iotest"
	"time"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/posenc/encio"
)

// readPattern asks r for chunks of the given sizes and returns what it got.
func readPattern(r encio.Reader, sizes []int) ([][]byte, error) {
	var got [][]byte
	for _, size := range sizes {
		buff := make([]byte, size)
		if err := r.ReadFull(buff); err != nil {
			return got, err
		}
		got = append(got, buff)
	}
	return got, nil
}

func TestReaderOffset(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	sizes := []int{1, 2, 3, 4}

	blocking := encio.NewReader(bytes.NewReader(data))
	suspend := encio.NewSuspendReader(context.Background(), encio.Async(iotest.OneByteReader(bytes.NewReader(data))))

	bGot, err := readPattern(blocking, sizes)
	td.CmpNoError(t, err)
	sGot, err := readPattern(suspend, sizes)
	td.CmpNoError(t, err)

	td.Cmp(t, sGot, bGot)
	td.Cmp(t, blocking.Offset(), int64(10))
	td.Cmp(t, suspend.Offset(), int64(10))
}

func TestReaderTruncated(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}

	for name, r := range map[string]encio.Reader{
		"blocking": encio.NewReader(bytes.NewReader(data)),
		"suspend":  encio.NewSuspendReader(context.Background(), encio.Async(bytes.NewReader(data))),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := readPattern(r, []int{2, 8})
			td.CmpTrue(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)

			var ioErr encio.IOError
			if td.CmpTrue(t, errors.As(err, &ioErr)) {
				td.Cmp(t, ioErr.Offset, int64(5))
			}
			td.Cmp(t, r.Offset(), int64(5))
		})
	}
}

func TestSuspendReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := encio.NewSuspendReader(ctx, encio.Async(bytes.NewReader([]byte{1})))
	err := r.ReadFull(make([]byte, 1))
	td.CmpTrue(t, errors.Is(err, context.Canceled), "got %v", err)
	td.Cmp(t, r.Offset(), int64(0))
}

func TestDeadlineReader(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		server.Write([]byte{1, 2})
		time.Sleep(5 * time.Millisecond)
		server.Write([]byte{3, 4})
	}()

	r := encio.NewDeadlineReader(client)
	got := make([]byte, 4)
	n, err := r.ReadExact(context.Background(), got)
	td.CmpNoError(t, err)
	td.Cmp(t, n, 4)
	td.Cmp(t, got, []byte{1, 2, 3, 4})
}

func TestDeadlineReaderCancel(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := encio.NewDeadlineReader(client).ReadExact(ctx, make([]byte, 4))
	td.Cmp(t, err, context.Canceled)
}

// lateDeadlineConn is slow to apply deadlines that have already passed.
type lateDeadlineConn struct {
	net.Conn
	expiring chan struct{}
}

func (c *lateDeadlineConn) SetReadDeadline(t time.Time) error {
	if !t.IsZero() && t.Before(time.Now()) {
		close(c.expiring)
		time.Sleep(20 * time.Millisecond)
	}
	return c.Conn.SetReadDeadline(t)
}

func TestDeadlineReaderCancelAfterRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := &lateDeadlineConn{Conn: client, expiring: make(chan struct{})}
	r := encio.NewDeadlineReader(conn)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
		// The read finishes while the cancellation is still setting its deadline.
		<-conn.expiring
		server.Write([]byte{1, 2})
		server.Write([]byte{3, 4})
	}()

	got := make([]byte, 2)
	n, err := r.ReadExact(ctx, got)
	td.CmpNoError(t, err)
	td.Cmp(t, n, 2)
	td.Cmp(t, got, []byte{1, 2})

	n, err = r.ReadExact(context.Background(), got)
	td.CmpNoError(t, err, "the cancelled read's deadline is cleared")
	td.Cmp(t, n, 2)
	td.Cmp(t, got, []byte{3, 4})
}

func TestDeadlineReaderTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	r := encio.NewSuspendReader(ctx, encio.NewDeadlineReader(client))
	err := r.ReadFull(make([]byte, 4))
	td.CmpTrue(t, encio.IsRecoverable(err), "got %v", err)
}
