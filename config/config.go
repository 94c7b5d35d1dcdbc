package config

import (
	"time"
)

type (
	Headers struct {
		// MaxBlockSize limits the request line and header lines, including the terminating
		// blank line, as seen by the request parser. A buffer exceeding it while still missing
		// the terminator is rejected as malformed.
		MaxBlockSize int
		// MaxBufferSize limits how many bytes the connection accumulates while waiting for
		// the header terminator. Overflowing it results in 431 Request Header Fields Too Large.
		// This check happens before the parser is ever invoked, so it's intentionally separate
		// from MaxBlockSize.
		MaxBufferSize int
		// Default headers are included into every response implicitly, unless explicitly
		// overridden by the handler.
		Default map[string]string `test:"nullable"`
	}

	Body struct {
		// MaxSize describes the maximal Content-Length value to be accepted. As bodies are
		// fully buffered in memory before the handler is called, requests declaring longer
		// bodies are answered with 413 Request Entity Too Large.
		MaxSize int64
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// WriteTimeout limits how long a single response write may take.
		WriteTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
		// Backlog is the desired size of the accept queue. Go runtime always listens with
		// the system-wide maximum (somaxconn), so the value is reported on start only.
		Backlog int
		// MaxConns is the maximal number of simultaneously served connections. Connections
		// beyond it wait for a free slot at most AdmissionTimeout, and are closed afterwards.
		MaxConns int64
		// AdmissionTimeout is how long an accepted connection may wait for a free slot when
		// MaxConns is reached. Zero means connections are rejected immediately.
		AdmissionTimeout time.Duration `test:"nullable"`
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers
	Body    Body
	NET     NET
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		Headers: Headers{
			MaxBlockSize:  32 * 1024,
			MaxBufferSize: 64 * 1024,
			Default:       make(map[string]string),
		},
		Body: Body{
			MaxSize: 16 * 1024 * 1024, // 16 megabytes
		},
		NET: NET{
			ReadBufferSize:            4 * 1024, // 4kb is more than enough for ordinary requests.
			ReadTimeout:               90 * time.Second,
			WriteTimeout:              30 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			Backlog:                   100,
			MaxConns:                  1000,
			AdmissionTimeout:          100 * time.Millisecond,
		},
	}
}
