package dummy

import (
	"io"
	"net"
	"testing"

	"github.com/indigo-web/plainhttp/transport"
	"github.com/stretchr/testify/require"
)

func TestMockClient(t *testing.T) {
	t.Run("no looping", func(t *testing.T) {
		slices := [][]byte{
			[]byte("Hello"), []byte("world!"),
		}
		client := NewMockClient(slices...).Once()

		for _, slice := range slices {
			got, err := client.Read()
			require.NoError(t, err)
			require.Equal(t, string(slice), string(got))
		}

		_, err := client.Read()
		require.EqualError(t, err, io.EOF.Error())
		require.True(t, client.Closed())
	})

	t.Run("looped slices", func(t *testing.T) {
		slices := [][]byte{
			[]byte("Hello"), []byte("world"), []byte("!"),
		}
		client := NewMockClient(slices...)
		for i := 0; i < len(slices)*2; i++ {
			data, err := client.Read()
			require.NoError(t, err)
			require.Equal(t, string(slices[i%len(slices)]), string(data))
		}
	})

	t.Run("pushback", func(t *testing.T) {
		client := NewMockClient([]byte("Hello")).Once()
		data, err := client.Read()
		require.NoError(t, err)
		client.Pushback(data[2:])
		data, err = client.Read()
		require.NoError(t, err)
		require.Equal(t, "llo", string(data))
	})

	t.Run("journaling", func(t *testing.T) {
		client := NewNopClient()
		_, err := client.Write([]byte("Hello, "))
		require.NoError(t, err)
		bufs := net.Buffers{[]byte("world"), []byte("!")}
		n, err := client.Writev(&bufs)
		require.NoError(t, err)
		require.Equal(t, int64(6), n)
		require.Equal(t, "Hello, world!", client.Written())
		require.Equal(t, 2, client.Writes())
		require.Equal(t, 1, client.Vectored())
	})

	t.Run("interrupt", func(t *testing.T) {
		client := NewMockClient([]byte("Hello"))
		client.Interrupt()
		_, err := client.Read()
		require.ErrorIs(t, err, transport.ErrInterrupted)
	})

	t.Run("failing writes", func(t *testing.T) {
		client := NewNopClient().FailWrites()
		_, err := client.Write([]byte("Hello"))
		require.ErrorIs(t, err, ErrBrokenPipe)
	})
}
