package http

import (
	"net"

	"github.com/indigo-web/plainhttp/http/proto"
	"github.com/indigo-web/plainhttp/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents a single parsed HTTP request. It's created by the parser once per
// message and must be treated as read-only by handlers.
type Request struct {
	// Method is the request method token as met on the wire. Methods aren't restricted to a
	// known set, as routing is done by exact comparison.
	Method string
	// Path is the request target as is, neither decoded nor normalized.
	Path string
	// Protocol is either proto.HTTP10 or proto.HTTP11.
	Protocol proto.Protocol
	// Headers holds header pairs. Lookup is case-insensitive, and the last occurrence of a
	// header wins.
	Headers Headers
	// KeepAlive reports whether the client asked to reuse the connection after the response.
	// Derived from the protocol version and the Connection header.
	KeepAlive bool
	// ContentLength is the value of the Content-Length header, or 0 if it's absent.
	ContentLength int64
	// Body contains the whole request body. It's never longer than ContentLength.
	Body []byte
	// Truncated is set when the client closed the connection before transmitting the whole
	// body. In this case len(Body) < ContentLength.
	Truncated bool
	// Remote holds the remote address. Please note that this is generally not a good parameter
	// to identify a user, because there might be proxies in the middle.
	Remote net.Addr
}

// NewRequest returns a request with empty headers. Mostly useful in tests, as requests are
// normally produced by the parser.
func NewRequest(method, path string, protocol proto.Protocol) *Request {
	return &Request{
		Method:    method,
		Path:      path,
		Protocol:  protocol,
		Headers:   kv.New(),
		KeepAlive: protocol == proto.HTTP11,
	}
}

// Respond returns a new response builder with the Connection header already agreeing
// with the request's keep-alive decision.
func (r *Request) Respond() *Response {
	return NewResponse().Header("Connection", connectionToken(r.KeepAlive))
}

func connectionToken(keepAlive bool) string {
	if keepAlive {
		return "keep-alive"
	}

	return "close"
}
