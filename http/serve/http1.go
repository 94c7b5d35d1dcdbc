package serve

import (
	"context"
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/plainhttp/config"
	"github.com/indigo-web/plainhttp/internal/protocol/http1"
	"github.com/indigo-web/plainhttp/router"
	"github.com/indigo-web/plainhttp/transport"
	"github.com/rs/zerolog"
)

const connIDLength = 8

// HTTP1 serves the connection until either side decides to close it, or the context is done.
// Note that the connection isn't closed here.
func HTTP1(ctx context.Context, cfg *config.Config, conn net.Conn, r router.Router, logger zerolog.Logger) {
	log := logger.With().
		Str("conn", uniuri.NewLen(connIDLength)).
		Stringer("remote", conn.RemoteAddr()).
		Logger()
	log.Debug().Msg("connection opened")

	client := transport.NewClient(
		conn, cfg.NET.ReadTimeout, cfg.NET.WriteTimeout, make([]byte, cfg.NET.ReadBufferSize),
	)

	// wake up a read blocked on an idle connection as soon as the server is stopping
	stop := context.AfterFunc(ctx, client.Interrupt)
	defer stop()

	http1.New(cfg, r, client, log).Serve(ctx)
	log.Debug().Msg("connection closed")
}
