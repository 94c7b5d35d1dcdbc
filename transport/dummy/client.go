package dummy

import (
	"errors"
	"io"
	"net"

	"github.com/indigo-web/plainhttp/transport"
)

var _ transport.Client = new(Client)

// ErrBrokenPipe is returned by writes of a client with failing writes enabled.
var ErrBrokenPipe = errors.New("dummy client: broken pipe")

// Client returns the same data as it was initialised with on every read, unless set to
// shoot once. It also tracks all the written data and the number of write operations,
// making it thereby a universal mock suitable for most of the tests.
type Client struct {
	closed      bool
	once        bool
	journaling  bool
	failWrites  bool
	interrupted bool
	pointer     int
	writes      int
	vectored    int
	tmp         []byte
	written     []byte
	data        [][]byte
	conn        *Conn
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data:       data,
		pointer:    0,
		journaling: true,
		conn:       new(Conn).Nop(),
	}
}

// NewNopClient returns a client having nothing to read.
func NewNopClient() *Client {
	return NewMockClient().Once()
}

func (c *Client) Read() (data []byte, err error) {
	if c.interrupted {
		return nil, transport.ErrInterrupted
	}

	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		if c.once {
			c.closed = true
			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) (int, error) {
	if c.failWrites {
		return 0, ErrBrokenPipe
	}

	c.writes++
	if c.journaling {
		c.written = append(c.written, p...)
	}

	return len(p), nil
}

func (c *Client) Writev(bufs *net.Buffers) (int64, error) {
	if c.failWrites {
		return 0, ErrBrokenPipe
	}

	c.writes++
	c.vectored++
	var n int64
	for _, buf := range *bufs {
		if c.journaling {
			c.written = append(c.written, buf...)
		}

		n += int64(len(buf))
	}

	*bufs = (*bufs)[:0]

	return n, nil
}

func (c *Client) Conn() net.Conn {
	return c.conn
}

func (*Client) Remote() net.Addr {
	return nil
}

// Interrupt makes all the following reads fail with transport.ErrInterrupted.
func (c *Client) Interrupt() {
	c.interrupted = true
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close was called or the data was exhausted.
func (c *Client) Closed() bool {
	return c.closed
}

func (c *Client) Once() *Client {
	c.once = true
	return c
}

func (c *Client) Journaling(flag bool) *Client {
	c.journaling = flag
	return c
}

// FailWrites makes every following write return ErrBrokenPipe.
func (c *Client) FailWrites() *Client {
	c.failWrites = true
	return c
}

// Writes returns the number of write operations performed.
func (c *Client) Writes() int {
	return c.writes
}

// Vectored returns the number of write operations performed via Writev.
func (c *Client) Vectored() int {
	return c.vectored
}

func (c *Client) Written() string {
	if !c.journaling {
		panic("mock client: cannot access written data: journaling is disabled!")
	}

	return string(c.written)
}
