package http1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/indigo-web/plainhttp/config"
	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/http/proto"
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/indigo-web/plainhttp/router"
	"github.com/indigo-web/plainhttp/transport"
	"github.com/indigo-web/utils/strcomp"
	"github.com/rs/zerolog"
)

// Pipeline serves a single connection: it reads requests one after another, dispatches
// them to the router and writes the responses back in the same order. Pipelined requests
// are supported, as the bytes following the current request are kept for the next one.
type Pipeline struct {
	cfg        *config.Config
	router     router.Router
	client     transport.Client
	serializer *Serializer
	log        zerolog.Logger
	// buff accumulates the header block of the current request. It may also contain the
	// body, or even next requests, if they arrived within the same read.
	buff []byte
	// scanned is the number of leading bytes of buff which are known to have no terminator.
	scanned int
}

func New(cfg *config.Config, r router.Router, client transport.Client, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		router:     r,
		client:     client,
		serializer: NewSerializer(client, make([]byte, 0, cfg.NET.ReadBufferSize), cfg.Headers.Default),
		log:        logger,
		buff:       make([]byte, 0, cfg.NET.ReadBufferSize),
	}
}

// Serve processes requests until the connection must be closed. The connection itself is
// left open, closing it is the caller's duty.
func (p *Pipeline) Serve(ctx context.Context) {
	for p.ServeOnce(ctx) {
	}
}

// ServeOnce processes exactly one request. Returns whether the connection may be reused.
func (p *Pipeline) ServeOnce(ctx context.Context) bool {
	end, err := p.readHead(ctx)
	switch {
	case err == nil:
	case errors.Is(err, status.ErrHeaderFieldsTooLarge):
		p.reject(proto.Unknown, err)
		return false
	case errors.Is(err, io.EOF) && len(p.buff) == 0:
		p.log.Debug().Msg("connection closed by peer")
		return false
	default:
		p.log.Debug().Err(err).Int("buffered", len(p.buff)).Msg("connection lost")
		return false
	}

	outcome := Parse(p.buff[:end], p.cfg.Headers.MaxBlockSize)
	if outcome.State != Ok {
		p.reject(proto.Unknown, outcome.Err)
		return false
	}

	request := outcome.Request
	request.Remote = p.client.Remote()

	if request.ContentLength > p.cfg.Body.MaxSize {
		p.reject(request.Protocol, status.ErrBodyTooLarge)
		return false
	}

	if err = p.readBody(ctx, request, end); err != nil {
		if ctx.Err() != nil {
			return false
		}

		p.log.Debug().Err(err).
			Int64("content_length", request.ContentLength).
			Int("received", len(request.Body)).
			Msg("request body is truncated")
	}

	response, keepAlive := p.dispatch(request)
	if err = p.write(ctx, request.Protocol, response); err != nil {
		p.log.Debug().Err(err).Msg("failed to write the response")
		return false
	}

	return keepAlive
}

// readHead reads from the client until the header terminator is met. Returns the length of
// the header block, including the terminator.
func (p *Pipeline) readHead(ctx context.Context) (int, error) {
	limit := p.cfg.Headers.MaxBufferSize

	for {
		if idx := IndexTerminator(p.buff, p.scanned); idx != -1 {
			end := idx + len(terminator)
			if end > limit {
				return 0, status.ErrHeaderFieldsTooLarge
			}

			return end, nil
		}

		if len(p.buff) > limit {
			return 0, status.ErrHeaderFieldsTooLarge
		}

		p.scanned = len(p.buff)

		if err := ctx.Err(); err != nil {
			return 0, err
		}

		data, err := p.client.Read()
		p.buff = append(p.buff, data...)
		if err != nil {
			return 0, fmt.Errorf("read: %w", err)
		}
	}
}

// readBody fills the request body. The bytes already buffered after the header block are
// consumed first; whatever remains after the body is preserved for the next request. If the
// client stops sending too early, the request is marked as truncated.
func (p *Pipeline) readBody(ctx context.Context, request *http.Request, headEnd int) error {
	rest := p.buff[headEnd:]
	length := int(request.ContentLength)
	inBuffer := min(len(rest), length)

	if length > 0 {
		request.Body = make([]byte, 0, length)
		request.Body = append(request.Body, rest[:inBuffer]...)
	}

	// move the tail of the buffer to the beginning, so the next request starts at zero
	p.buff = p.buff[:copy(p.buff, rest[inBuffer:])]
	p.scanned = 0

	for len(request.Body) < length {
		if err := ctx.Err(); err != nil {
			request.Truncated = true
			return err
		}

		data, err := p.client.Read()
		if need := length - len(request.Body); len(data) > need {
			p.client.Pushback(data[need:])
			data = data[:need]
		}

		request.Body = append(request.Body, data...)
		if err != nil && len(request.Body) < length {
			request.Truncated = true
			return fmt.Errorf("read body: %w", err)
		}
	}

	return nil
}

// dispatch calls the handler and makes the response ready to be written. Returns whether
// the connection may be reused afterwards.
func (p *Pipeline) dispatch(request *http.Request) (response *http.Response, keepAlive bool) {
	response, err := p.callHandler(request)
	keepAlive = request.KeepAlive && !request.Truncated

	switch {
	case err != nil:
		p.log.Error().Err(err).
			Str("method", request.Method).
			Str("path", request.Path).
			Msg("handler failed")
		response = http.NewResponse().Error(err)
		keepAlive = false
	case response == nil:
		response = http.NewResponse()
	}

	fields := response.Expose()
	connection, found := fields.Headers.Get("Connection")
	switch {
	case !found:
		response.Header("Connection", connectionToken(keepAlive))
	case !keepAlive:
		response.Header("Connection", "close")
	case strcomp.EqualFold(strings.TrimSpace(connection), "close"):
		keepAlive = false
	}

	return response, keepAlive
}

func (p *Pipeline) callHandler(request *http.Request) (response *http.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			response, err = nil, fmt.Errorf("panic: %v: %w", r, status.ErrInternalServerError)
		}
	}()

	return p.router.Find(request.Method, request.Path)(request)
}

// reject answers with an error response and gives up on the connection. Any write error is
// ignored, as the connection is going to be closed anyway.
func (p *Pipeline) reject(protocol proto.Protocol, err error) {
	p.log.Warn().Err(err).Msg("request rejected")

	response := http.NewResponse().
		Error(err).
		Header("Connection", "close")
	_ = p.serializer.Write(protocol, response)
}

func (p *Pipeline) write(ctx context.Context, protocol proto.Protocol, response *http.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.serializer.Write(protocol, response); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func connectionToken(keepAlive bool) string {
	if keepAlive {
		return "keep-alive"
	}

	return "close"
}
