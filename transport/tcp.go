package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/indigo-web/plainhttp/config"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

type TCP struct {
	l   listener
	wg  *sync.WaitGroup
	log zerolog.Logger
}

func NewTCP(logger zerolog.Logger) *TCP {
	return &TCP{
		wg:  new(sync.WaitGroup),
		log: logger,
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) (err error) {
	t.l, err = bindTCP(addr)
	return err
}

func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

// Listen runs the accept loop. Every accepted connection must pass the admission gate,
// limiting the number of simultaneously served connections to cfg.MaxConns. Connections
// which didn't get a slot in cfg.AdmissionTimeout are closed right away.
func (t *TCP) Listen(ctx context.Context, cfg config.NET, cb OnConn) error {
	gate := semaphore.NewWeighted(cfg.MaxConns)

	for ctx.Err() == nil {
		err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			if ctx.Err() != nil {
				// the listener was closed due to shutdown
				break
			}

			return err
		}

		if !admit(ctx, gate, cfg.AdmissionTimeout) {
			t.log.Warn().
				Stringer("remote", conn.RemoteAddr()).
				Int64("max_conns", cfg.MaxConns).
				Msg("connection rejected: too many connections")
			_ = conn.Close()
			continue
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			defer gate.Release(1)

			cb(ctx, conn)
			_ = conn.Close()
		}(conn)
	}

	return nil
}

func admit(ctx context.Context, gate *semaphore.Weighted, timeout time.Duration) bool {
	if gate.TryAcquire(1) {
		return true
	}

	if timeout <= 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return gate.Acquire(ctx, 1) == nil
}

func (t *TCP) Close() {
	_ = t.l.Close()
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
