package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	newClient := func(conn net.Conn) Client {
		return NewClient(conn, time.Hour, time.Hour, make([]byte, 64))
	}

	t.Run("read and pushback", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()
		client := newClient(server)

		go func() {
			_, _ = peer.Write([]byte("Hello"))
		}()

		data, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "Hello", string(data))

		client.Pushback(data[2:])
		data, err = client.Read()
		require.NoError(t, err)
		require.Equal(t, "llo", string(data))
	})

	t.Run("interrupt before read", func(t *testing.T) {
		// the read deadline set by Read itself must not cancel the interruption out
		server, peer := net.Pipe()
		defer peer.Close()
		client := newClient(server)
		client.Interrupt()

		done := make(chan error, 1)
		go func() {
			_, err := client.Read()
			done <- err
		}()

		select {
		case err := <-done:
			require.ErrorIs(t, err, ErrInterrupted)
		case <-time.After(time.Second):
			require.Fail(t, "read is still blocked")
		}
	})

	t.Run("interrupt blocked read", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()
		client := newClient(server)

		done := make(chan error, 1)
		go func() {
			_, err := client.Read()
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		client.Interrupt()

		select {
		case err := <-done:
			require.True(t,
				errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, ErrInterrupted), err,
			)
		case <-time.After(time.Second):
			require.Fail(t, "read is still blocked")
		}

		_, err := client.Read()
		require.ErrorIs(t, err, ErrInterrupted)
	})

	t.Run("writev", func(t *testing.T) {
		server, peer := net.Pipe()
		defer peer.Close()
		client := newClient(server)

		go func() {
			bufs := net.Buffers{[]byte("Hello, "), []byte("world!")}
			_, _ = client.Writev(&bufs)
		}()

		buff := make([]byte, len("Hello, world!"))
		_, err := io.ReadFull(peer, buff)
		require.NoError(t, err)
		require.Equal(t, "Hello, world!", string(buff))
	})
}
