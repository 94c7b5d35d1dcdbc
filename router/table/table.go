package table

import (
	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/indigo-web/plainhttp/router"
)

var _ router.Router = new(Table)

// Table is a router matching requests by exact (method, path) equality. Routes must be
// registered before serving starts; after that the table is read-only and therefore safe
// to be shared among connections without locking.
type Table struct {
	routes   map[string]methods
	notFound router.Handler
}

type methods map[string]router.Handler

func New() *Table {
	return &Table{
		routes:   make(map[string]methods),
		notFound: NotFound,
	}
}

// Map registers the handler for the method and path. Registering the same pair twice
// overrides the previous handler.
func (t *Table) Map(method, path string, handler router.Handler) *Table {
	entry, found := t.routes[path]
	if !found {
		entry = make(methods)
		t.routes[path] = entry
	}

	entry[method] = handler
	return t
}

// Get is a shortcut for Map("GET", path, handler).
func (t *Table) Get(path string, handler router.Handler) *Table {
	return t.Map("GET", path, handler)
}

// Post is a shortcut for Map("POST", path, handler).
func (t *Table) Post(path string, handler router.Handler) *Table {
	return t.Map("POST", path, handler)
}

// NotFound replaces the fallback handler, called when no route matches.
func (t *Table) NotFound(handler router.Handler) *Table {
	if handler == nil {
		handler = NotFound
	}

	t.notFound = handler
	return t
}

// Find returns the handler registered for the method and path, or the fallback one.
func (t *Table) Find(method, path string) router.Handler {
	if handler, found := t.routes[path][method]; found {
		return handler
	}

	return t.notFound
}

// NotFound is the default fallback handler. It keeps the connection as the request
// asked for.
func NotFound(request *http.Request) (*http.Response, error) {
	return request.Respond().Error(status.ErrNotFound), nil
}
