package transport

import (
	"context"
	"net"

	"github.com/indigo-web/plainhttp/config"
)

// OnConn serves a single accepted connection. The connection is closed by the transport
// after the callback returns.
type OnConn func(ctx context.Context, conn net.Conn)

type Transport interface {
	Bind(addr string) error
	// Listen accepts connections until the context is done or an unrecoverable error occurs.
	Listen(ctx context.Context, cfg config.NET, cb OnConn) error
	// Addr returns the bound address. Must be called after Bind only.
	Addr() net.Addr
	Close()
	// Wait blocks until all the connections are served.
	Wait()
}
