package response

import (
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/indigo-web/plainhttp/kv"
)

// Fields is the raw content of a response. It is produced by the http.Response builder and
// consumed by the serializer only.
type Fields struct {
	Headers *kv.Storage
	Status  status.Status
	Body    []byte
	Code    status.Code
}
