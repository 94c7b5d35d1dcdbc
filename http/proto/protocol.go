package proto

import "github.com/indigo-web/utils/uf"

// Protocol enumerates the protocol versions the server is able to speak. Anything else met
// in a request line is rejected by the parser.
type Protocol uint8

const (
	Unknown Protocol = iota
	HTTP10
	HTTP11
)

func (p Protocol) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return ""
	}
}

// Parse recognizes the protocol token exactly as it's met on the wire. The comparison is
// case-sensitive, as is the HTTP-version grammar.
func Parse(token string) Protocol {
	switch token {
	case "HTTP/1.1":
		return HTTP11
	case "HTTP/1.0":
		return HTTP10
	default:
		return Unknown
	}
}

// FromBytes does the same as Parse, but doesn't copy the token.
func FromBytes(raw []byte) Protocol {
	return Parse(uf.B2S(raw))
}
