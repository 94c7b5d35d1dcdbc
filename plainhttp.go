package plainhttp

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/indigo-web/plainhttp/config"
	"github.com/indigo-web/plainhttp/http/serve"
	"github.com/indigo-web/plainhttp/router"
	"github.com/indigo-web/plainhttp/router/table"
	"github.com/indigo-web/plainhttp/transport"
	"github.com/rs/zerolog"
)

// App is the entry point of the server. It binds the listeners, runs the accept loops and
// serves every accepted connection in its own goroutine.
type App struct {
	cfg   *config.Config
	addrs []string
	hooks hooks
	log   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	bound  []net.Addr
}

// New returns a new App instance listening on the address.
func New(addr string) *App {
	return &App{
		cfg:   config.Default(),
		addrs: []string{addr},
		log:   zerolog.Nop(),
	}
}

// Bind adds one more address to listen on.
func (a *App) Bind(addr string) *App {
	a.addrs = append(a.addrs, addr)
	return a
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger installs the logger. By default, nothing is logged.
func (a *App) Logger(logger zerolog.Logger) *App {
	a.log = logger
	return a
}

// NotifyOnStart calls the callback at the moment, when all the listeners are bound. Addrs
// is already valid by the time.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when all the listeners are closed and all
// the clients are disconnected.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Addrs returns the actual addresses of the listeners. Empty until the server is started.
func (a *App) Addrs() []net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.bound
}

// Serve binds all the addresses and serves the connections until the context is done, Stop
// is called or any of the listeners fails. Returns after all the connections are closed.
// If nil router is passed, every request is answered with 404 Not Found.
func (a *App) Serve(ctx context.Context, r router.Router) error {
	if r == nil {
		r = table.New()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sup := transport.NewSupervisor()
	for _, addr := range a.addrs {
		if err := sup.Add(addr, transport.NewTCP(a.log), a.onConn(r)); err != nil {
			return fmt.Errorf("bind %s: %w", addr, err)
		}
	}

	a.mu.Lock()
	a.cancel = cancel
	a.bound = sup.Addrs()
	a.mu.Unlock()

	for _, addr := range a.bound {
		a.log.Info().
			Stringer("addr", addr).
			Int("backlog", a.cfg.NET.Backlog).
			Int64("max_conns", a.cfg.NET.MaxConns).
			Msg("listening")
	}

	callIfNotNil(a.hooks.OnStart)
	err := sup.Run(ctx, a.cfg.NET)
	callIfNotNil(a.hooks.OnStop)

	if err != nil {
		a.log.Error().Err(err).Msg("server stopped")
		return err
	}

	a.log.Info().Msg("server stopped")
	return nil
}

// Stop initiates the shutdown. Accept loops stop immediately, active connections are closed
// before their next blocking read or write.
//
// NOTE: the call isn't blocking. Serve returns once the shutdown is complete.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) onConn(r router.Router) transport.OnConn {
	return func(ctx context.Context, conn net.Conn) {
		serve.HTTP1(ctx, a.cfg, conn, r, a.log)
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
