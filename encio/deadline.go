package encio

import (
	"context"
	"errors"
	"io"
	"time"
)

// DeadlineConn is a reader with read deadlines, such as net.Conn.
type DeadlineConn interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// NewDeadlineReader returns an AsyncReader over conn that maps ctx onto conn's read deadline;
// a read parked on conn is woken when ctx is cancelled or its deadline passes.
//
// The read deadline of conn is owned by the DeadlineReader while ReadExact runs,
// and is cleared when it returns.
func NewDeadlineReader(conn DeadlineConn) *DeadlineReader {
	return &DeadlineReader{conn: conn}
}

// DeadlineReader is an AsyncReader for connections.
type DeadlineReader struct {
	conn DeadlineConn
}

// aLongTimeAgo is a deadline that has always passed.
var aLongTimeAgo = time.Unix(1, 0)

// ReadExact implements AsyncReader.
func (d *DeadlineReader) ReadExact(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	deadline, _ := ctx.Deadline()
	if err := d.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}

	woken := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		d.conn.SetReadDeadline(aLongTimeAgo)
		close(woken)
	})
	defer func() {
		if !stop() {
			// The wake up is running; let it finish before clearing its deadline.
			<-woken
		}
		d.conn.SetReadDeadline(time.Time{})
	}()

	n, err := readFull(p, d.conn)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && isTimeout(err) {
			err = ctxErr
		}
	}
	return n, err
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
