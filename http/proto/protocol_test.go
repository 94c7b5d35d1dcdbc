package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	require.Equal(t, HTTP11, Parse("HTTP/1.1"))
	require.Equal(t, HTTP10, FromBytes([]byte("HTTP/1.0")))

	for _, token := range []string{"HTTP/2", "http/1.1", "HTTP/1.1 ", "HTTP/0.9", ""} {
		require.Equal(t, Unknown, Parse(token), token)
	}
}

func TestString(t *testing.T) {
	require.Equal(t, "HTTP/1.1", HTTP11.String())
	require.Equal(t, "HTTP/1.0", HTTP10.String())
	require.Empty(t, Unknown.String())
}
