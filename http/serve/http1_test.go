package serve

import (
	"bufio"
	"context"
	"io"
	"net"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/indigo-web/plainhttp/config"
	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/router/table"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func serveParallel(ctx context.Context, cfg *config.Config, conn net.Conn) chan struct{} {
	r := table.New().Get("/", func(request *http.Request) (*http.Response, error) {
		return http.String(request, "Welcome"), nil
	})
	done := make(chan struct{})

	go func() {
		HTTP1(ctx, cfg, conn, r, zerolog.Nop())
		close(done)
	}()

	return done
}

func waitDone(t *testing.T, done chan struct{}) {
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "connection is still being served")
	}
}

func TestHTTP1(t *testing.T) {
	t.Run("keep-alive", func(t *testing.T) {
		server, client := net.Pipe()
		defer client.Close()
		done := serveParallel(context.Background(), config.Default(), server)
		reader := bufio.NewReader(client)

		for range 3 {
			_, err := client.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
			require.NoError(t, err)
			resp, err := stdhttp.ReadResponse(reader, nil)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, "Welcome", string(body))
			require.Equal(t, "keep-alive", resp.Header.Get("Connection"))
		}

		require.NoError(t, client.Close())
		waitDone(t, done)
	})

	t.Run("connection close", func(t *testing.T) {
		server, client := net.Pipe()
		defer client.Close()
		done := serveParallel(context.Background(), config.Default(), server)

		_, err := client.Write([]byte("GET / HTTP/1.0\r\n\r\n"))
		require.NoError(t, err)
		resp, err := stdhttp.ReadResponse(bufio.NewReader(client), nil)
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "close", resp.Header.Get("Connection"))
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "Welcome", string(body))
		waitDone(t, done)
	})

	t.Run("idle timeout", func(t *testing.T) {
		cfg := config.Default()
		cfg.NET.ReadTimeout = 50 * time.Millisecond
		server, client := net.Pipe()
		defer client.Close()
		waitDone(t, serveParallel(context.Background(), cfg, server))
	})

	t.Run("shutdown wakes up idle connection", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		server, client := net.Pipe()
		defer client.Close()
		done := serveParallel(ctx, config.Default(), server)

		time.Sleep(20 * time.Millisecond)
		cancel()
		waitDone(t, done)
	})
}
