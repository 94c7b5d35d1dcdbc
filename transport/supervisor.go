package transport

import (
	"context"
	"net"

	"github.com/indigo-web/plainhttp/config"
	"golang.org/x/sync/errgroup"
)

// Supervisor runs a bunch of bound transports together. They are all stopped as soon as any
// of them fails, or the context is done.
type Supervisor struct {
	ts []boundTransport
}

func NewSupervisor() Supervisor {
	return Supervisor{}
}

// Add binds the transport to the address. If binding fails, all the previously added
// transports are closed.
func (s *Supervisor) Add(addr string, transport Transport, cb OnConn) error {
	err := transport.Bind(addr)
	if err != nil {
		s.close()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		cb: cb,
		t:  transport,
	})

	return nil
}

// Addrs returns addresses of all the bound transports in order of addition.
func (s *Supervisor) Addrs() []net.Addr {
	addrs := make([]net.Addr, len(s.ts))
	for i, t := range s.ts {
		addrs[i] = t.t.Addr()
	}

	return addrs
}

// Run blocks until the context is done or any transport fails. In both cases the listeners
// are closed and all the connections are waited to be finished. Connections observe the
// same context, so they're notified about the shutdown as well.
func (s *Supervisor) Run(ctx context.Context, cfg config.NET) error {
	if len(s.ts) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, t := range s.ts {
		g.Go(func() error {
			return t.t.Listen(gctx, cfg, t.cb)
		})
	}

	err := g.Wait()
	s.close()

	for _, t := range s.ts {
		t.t.Wait()
	}

	return err
}

func (s *Supervisor) close() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	cb OnConn
	t  Transport
}
