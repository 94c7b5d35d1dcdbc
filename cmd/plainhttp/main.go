package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/plainhttp"
	"github.com/indigo-web/plainhttp/config"
	"github.com/rs/zerolog"
)

func main() {
	var (
		addr     = flag.String("addr", ":42069", "address to listen on")
		maxConns = flag.Int64("max-conns", 1000, "maximal number of simultaneously served connections")
		logLevel = flag.String("log-level", "info", "one of: trace, debug, info, warn, error, disabled")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad log level")
	}
	logger = logger.Level(level)

	cfg := config.Default()
	cfg.NET.MaxConns = *maxConns
	cfg.Headers.Default = map[string]string{"Server": "plainhttp"}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = plainhttp.New(*addr).
		Tune(cfg).
		Logger(logger).
		NotifyOnStop(func() {
			logger.Info().Msg("all connections are closed")
		}).
		Serve(ctx, routes())
	if err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
