package status

// HTTPError is an error that knows which response status it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequestLine       = NewError(BadRequest, "malformed request line")
	ErrBadHeaderLine        = NewError(BadRequest, "malformed header line")
	ErrUnsupportedProtocol  = NewError(BadRequest, "unsupported protocol version")
	ErrBadContentLength     = NewError(BadRequest, "invalid Content-Length value")
	ErrHeaderBlockTooLong   = NewError(BadRequest, "header block exceeds the limit")
	ErrUnsupportedEncoding  = NewError(BadRequest, "transfer codings are not supported")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
)
