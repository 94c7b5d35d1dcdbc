package router

import (
	"github.com/indigo-web/plainhttp/http"
)

// Handler processes a single request. A non-nil error means the request failed to be
// processed; the server answers it with an error response and closes the connection. If
// the error is a status.HTTPError, its code is used, otherwise 500 Internal Server Error.
type Handler func(*http.Request) (*http.Response, error)

// Router resolves handlers for incoming requests. It's shared by all the connections, so
// Find must be safe for concurrent use.
type Router interface {
	// Find must never return nil: if nothing matches, some fallback handler is returned.
	Find(method, path string) Handler
}
