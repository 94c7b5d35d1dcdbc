package main

import (
	"testing"

	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/http/proto"
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/stretchr/testify/require"
)

func call(method, path string, prepare func(*http.Request)) *http.Response {
	request := http.NewRequest(method, path, proto.HTTP11)
	if prepare != nil {
		prepare(request)
	}

	resp, err := routes().Find(method, path)(request)
	if err != nil {
		panic(err)
	}

	return resp
}

func TestRoutes(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		fields := call("GET", "/healthz", nil).Expose()
		require.Equal(t, status.OK, fields.Code)
		require.Equal(t, "ok", string(fields.Body))
		require.Equal(t, "2", fields.Headers.Value("Content-Length"))
	})

	t.Run("hello", func(t *testing.T) {
		fields := call("GET", "/hello", func(request *http.Request) {
			request.Headers.Set("user-agent", "curl/8.0")
		}).Expose()
		require.Equal(t, "Hello from Go HTTP! UA=curl/8.0", string(fields.Body))

		fields = call("GET", "/hello", nil).Expose()
		require.Equal(t, "Hello from Go HTTP! UA=unknown", string(fields.Body))
	})

	t.Run("index", func(t *testing.T) {
		fields := call("GET", "/", nil).Expose()
		require.Equal(t, "Welcome", string(fields.Body))
		require.Equal(t, "text/plain; charset=utf-8", fields.Headers.Value("Content-Type"))
	})

	t.Run("echo", func(t *testing.T) {
		fields := call("POST", "/echo", func(request *http.Request) {
			request.Headers.Set("Content-Type", "text/plain")
			request.Body = []byte("Hello, world!")
			request.ContentLength = int64(len(request.Body))
		}).Expose()
		require.Equal(t, "Hello, world!", string(fields.Body))
		require.Equal(t, "text/plain", fields.Headers.Value("Content-Type"))
		require.Equal(t, "13", fields.Headers.Value("Content-Length"))
	})

	t.Run("info", func(t *testing.T) {
		fields := call("GET", "/info", func(request *http.Request) {
			request.Headers.Set("Host", "localhost")
		}).Expose()
		require.Equal(t, "application/json", fields.Headers.Value("Content-Type"))
		require.JSONEq(t,
			`{"method":"GET","path":"/info","protocol":"HTTP/1.1","keep_alive":true,"headers":1}`,
			string(fields.Body),
		)
	})

	t.Run("unknown route", func(t *testing.T) {
		fields := call("DELETE", "/", nil).Expose()
		require.Equal(t, status.NotFound, fields.Code)
	})
}
