package mime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithCharset(t *testing.T) {
	require.Equal(t, "text/plain; charset=utf-8", WithCharset(Plain, UTF8))
	require.Equal(t, "application/json", WithCharset(JSON, Unset))
}
