package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Set("Foo", "bar").
			Set("Hello", "World").
			Set("Lorem", "ipsum")
	}

	t.Run("case-insensitive lookup", func(t *testing.T) {
		kv := getHeaders()
		require.Equal(t, "World", kv.Value("hello"))
		require.Equal(t, "World", kv.Value("HELLO"))
		require.True(t, kv.Has("foo"))
		require.False(t, kv.Has("bar"))
		require.Equal(t, "default", kv.ValueOr("bar", "default"))
	})

	t.Run("last write wins", func(t *testing.T) {
		kv := getHeaders().Set("hello", "Pavlo")

		want := []Pair{
			{"Foo", "bar"},
			{"hello", "Pavlo"},
			{"Lorem", "ipsum"},
		}

		require.Equal(t, want, kv.Expose())
	})

	t.Run("iterate in insertion order", func(t *testing.T) {
		var keys []string
		for key := range getHeaders().Pairs() {
			keys = append(keys, key)
		}

		require.Equal(t, []string{"Foo", "Hello", "Lorem"}, keys)
	})

	t.Run("from map", func(t *testing.T) {
		kv := NewFromMap(map[string]string{"Server": "plainhttp"})
		require.Equal(t, "plainhttp", kv.Value("server"))
	})
}
