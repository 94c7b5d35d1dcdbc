package http

import (
	"errors"
	"strconv"

	"github.com/indigo-web/plainhttp/http/mime"
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/indigo-web/plainhttp/internal/response"
	"github.com/indigo-web/plainhttp/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// why 5? Content-Length, Content-Type, Connection and a couple of custom ones.
const preallocRespHeaders = 5

// Response is a builder of the HTTP response. It's mutable until being returned from
// a handler; after that the server owns it and nobody must touch it anymore.
//
// The Content-Length header is managed by the builder itself and is always equal to the
// body length.
type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK
// and an empty body.
// NOTE: it's recommended to use Request.Respond() method inside of handlers, if there's no
// clear reason otherwise
func NewResponse() *Response {
	return &Response{
		&response.Fields{
			Code:    status.OK,
			Headers: kv.NewPrealloc(preallocRespHeaders).Set("Content-Length", "0"),
		},
	}
}

// Code sets a Response code. The reason phrase is derived from it, unless set explicitly
// via Status.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// Status sets a custom reason phrase.
func (r *Response) Status(status status.Status) *Response {
	r.fields.Status = status
	return r
}

// ContentType sets the Content-Type header value. An optional charset is appended as a
// parameter.
func (r *Response) ContentType(value mime.MIME, charset ...mime.Charset) *Response {
	if len(charset) > 0 {
		value = mime.WithCharset(value, charset[0])
	}

	return r.Header("Content-Type", value)
}

// Header sets the header value, overriding the previous one if any. Content-Length is
// ignored, as it's derived from the body.
func (r *Response) Header(key, value string) *Response {
	if strcomp.EqualFold(key, "content-length") {
		return r
	}

	r.fields.Headers.Set(key, value)
	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	r.updateContentLength()
	return r
}

// Write implements io.Writer interface. It always returns n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	r.updateContentLength()
	return len(b), nil
}

// TryJSON serializes the model into the body and returns an error if it failed to.
func (r *Response) TryJSON(model any) (*Response, error) {
	// the body might be backed by an immutable string, so it must not be reused
	r.fields.Body = nil
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	if err == nil {
		err = stream.Error
	}
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error turns the response into an error one. If an instance of status.HTTPError is passed,
// its code is used, otherwise 500 Internal Server Error. Nil error changes nothing.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	code := status.InternalServerError
	var httpErr status.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code != 0 {
		code = httpErr.Code
	}

	return r.
		Code(code).
		ContentType(mime.Plain, mime.UTF8).
		String(string(status.Text(code)))
}

// Expose returns a struct with values, filled by builder. Used mostly in internal purposes.
// Empty Status means the canonical reason phrase of the code.
func (r *Response) Expose() *response.Fields {
	return r.fields
}

func (r *Response) updateContentLength() {
	r.fields.Headers.Set("Content-Length", strconv.Itoa(len(r.fields.Body)))
}

// Respond is a predicate to request.Respond(). May be used as a dummy handler
func Respond(request *Request) (*Response, error) {
	return request.Respond(), nil
}

// String is a predicate to request.Respond().String(...)
func String(request *Request, str string) *Response {
	return request.Respond().ContentType(mime.Plain, mime.UTF8).String(str)
}

// Code is a predicate to request.Respond().Code(...)
func Code(request *Request, code status.Code) *Response {
	return request.Respond().Code(code)
}

// JSON is a predicate to request.Respond().JSON(...)
func JSON(request *Request, model any) *Response {
	return request.Respond().JSON(model)
}

// Error is a predicate to request.Respond().Error(...)
func Error(request *Request, err error) *Response {
	return request.Respond().Error(err)
}
