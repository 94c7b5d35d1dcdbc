package transport

import (
	"errors"
	"net"
	"sync/atomic"
	"time"
)

// ErrInterrupted is returned by reads of an interrupted client.
var ErrInterrupted = errors.New("client: interrupted")

type Client interface {
	Read() ([]byte, error)
	Pushback([]byte)
	Write([]byte) (int, error)
	// Writev transmits all the buffers in a single gathered write, if the underlying
	// connection supports it.
	Writev(*net.Buffers) (int64, error)
	Conn() net.Conn
	Remote() net.Addr
	// Interrupt wakes up a blocked Read and makes all the following reads fail with
	// ErrInterrupted. Safe to be called concurrently with Read.
	Interrupt()
	Close() error
}

type client struct {
	conn         net.Conn
	buff         []byte
	pending      []byte
	readTimeout  time.Duration
	writeTimeout time.Duration
	interrupted  atomic.Bool
}

func NewClient(conn net.Conn, readTimeout, writeTimeout time.Duration, buff []byte) Client {
	return &client{
		buff:         buff,
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. Timeouts are also
// handled automatically. The returned slice is valid only until the next Read call.
func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, err
	}

	// the deadline above might have overridden the one set by Interrupt
	if c.interrupted.Load() {
		return nil, ErrInterrupted
	}

	n, err := c.conn.Read(c.buff)
	return c.buff[:n], err
}

// Pushback preserves a chunk of data from previous read for the next read.
func (c *client) Pushback(b []byte) {
	c.pending = b
}

// Conn unwraps the underlying net.Conn.
func (c *client) Conn() net.Conn {
	return c.conn
}

// Write writes data into the underlying connection.
func (c *client) Write(b []byte) (int, error) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return 0, err
	}

	return c.conn.Write(b)
}

// Writev writes the buffers into the underlying connection. TCP connections do it via
// writev(2), others fall back to sequential writes.
func (c *client) Writev(bufs *net.Buffers) (int64, error) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return 0, err
	}

	return bufs.WriteTo(c.conn)
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Interrupt makes the current and all the following reads fail.
func (c *client) Interrupt() {
	c.interrupted.Store(true)
	_ = c.conn.SetReadDeadline(time.Now())
}

// Close closes the connection.
func (c *client) Close() error {
	return c.conn.Close()
}
