package http1

import (
	"net"
	"strconv"

	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/http/proto"
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/indigo-web/plainhttp/internal/response"
	"github.com/indigo-web/plainhttp/kv"
	"github.com/indigo-web/plainhttp/transport"
)

// Serializer renders responses into the wire format and transmits them. The status line and
// the header block are rendered into a reusable buffer, which is then sent together with the
// body in a single gathered write. A single Serializer is bound to a single connection and
// therefore isn't safe for concurrent use.
type Serializer struct {
	client         transport.Client
	buff           []byte
	bufs           net.Buffers
	defaultHeaders *kv.Storage
}

// NewSerializer returns a new serializer. Default headers are appended to every response which
// doesn't have them set already. The map is allowed to be nil.
func NewSerializer(client transport.Client, buff []byte, defaultHeaders map[string]string) *Serializer {
	return &Serializer{
		client:         client,
		buff:           buff[:0],
		bufs:           make(net.Buffers, 0, 2),
		defaultHeaders: kv.NewFromMap(defaultHeaders),
	}
}

// Write serializes the response and transmits it. Responses with no body are sent via a
// single write call, otherwise the head and the body are sent together via writev(2).
func (s *Serializer) Write(protocol proto.Protocol, resp *http.Response) error {
	head := s.Head(protocol, resp)
	body := resp.Expose().Body

	if len(body) == 0 {
		_, err := s.client.Write(head)
		return err
	}

	// net.Buffers.WriteTo consumes the slice, so it must be re-assembled every time
	s.bufs = append(s.bufs[:0], head, body)
	_, err := s.client.Writev(&s.bufs)

	return err
}

// Head renders only the status line and the header block of the response into the buffer
// without transmitting anything. The result is valid until the next call.
func (s *Serializer) Head(protocol proto.Protocol, resp *http.Response) []byte {
	fields := resp.Expose()
	s.buff = s.buff[:0]
	s.appendProtocol(protocol)
	s.appendStatus(fields)
	s.appendHeaders(fields)
	s.crlf()

	return s.buff
}

func (s *Serializer) appendProtocol(protocol proto.Protocol) {
	if protocol == proto.Unknown {
		// in case the request line was malformed, parser had no chance of reaching
		// the protocol and thereby resulting in the unknown one.
		protocol = proto.HTTP11
	}

	s.buff = append(s.buff, protocol.String()...)
	s.sp()
}

func (s *Serializer) appendStatus(fields *response.Fields) {
	s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	s.sp()

	statusText := fields.Status
	if len(statusText) == 0 {
		statusText = status.Text(fields.Code)
	}

	s.buff = append(s.buff, statusText...)
	s.crlf()
}

func (s *Serializer) appendHeaders(fields *response.Fields) {
	for _, header := range fields.Headers.Expose() {
		s.appendHeader(header)
	}

	for _, header := range s.defaultHeaders.Expose() {
		if !fields.Headers.Has(header.Key) {
			s.appendHeader(header)
		}
	}
}

// appendHeader writes a complete header field line including the trailing CRLF.
func (s *Serializer) appendHeader(header kv.Pair) {
	s.buff = append(s.buff, header.Key...)
	s.colonsp()
	s.buff = append(s.buff, header.Value...)
	s.crlf()
}

func (s *Serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) colonsp() {
	s.buff = append(s.buff, ':', ' ')
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}
