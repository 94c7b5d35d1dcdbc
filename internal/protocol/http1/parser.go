package http1

import (
	"bytes"
	"strconv"

	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/http/proto"
	"github.com/indigo-web/plainhttp/http/status"
	"github.com/indigo-web/plainhttp/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

type State uint8

const (
	NeedMoreData State = iota
	Ok
	BadRequest
)

func (s State) String() string {
	switch s {
	case NeedMoreData:
		return "NeedMoreData"
	case Ok:
		return "Ok"
	case BadRequest:
		return "BadRequest"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Outcome is the result of a single Parse call. Request and Consumed are set only when the
// State is Ok, Err only when it is BadRequest.
type Outcome struct {
	Request *http.Request
	Err     error
	// Consumed is the length of the header block including the terminating blank line. The
	// body, if any, starts right after.
	Consumed int
	State    State
}

const (
	crlf       = "\r\n"
	terminator = "\r\n\r\n"
)

// Parse tries to extract a request head out of the data. The data is expected to start at
// the request line and may contain any bytes after the header block (body or pipelined
// requests); those are left untouched. Parse has no state, so it's safe to call it again
// with the same data extended by a newly received chunk.
//
// If the terminator isn't met yet and the data already overflows maxHeaderSize, the request
// is considered malformed.
func Parse(data []byte, maxHeaderSize int) Outcome {
	idx := bytes.Index(data, uf.S2B(terminator))
	if idx == -1 {
		if len(data) > maxHeaderSize {
			return Outcome{State: BadRequest, Err: status.ErrHeaderBlockTooLong}
		}

		return Outcome{State: NeedMoreData}
	}

	startLine, headers, err := SplitHeaderBlock(data[:idx+len(crlf)])
	if err != nil {
		return Outcome{State: BadRequest, Err: err}
	}

	protocol := proto.Parse(startLine[2])
	if protocol == proto.Unknown {
		return Outcome{State: BadRequest, Err: status.ErrUnsupportedProtocol}
	}

	if headers.Has("Transfer-Encoding") {
		return Outcome{State: BadRequest, Err: status.ErrUnsupportedEncoding}
	}

	contentLength, err := parseContentLength(headers)
	if err != nil {
		return Outcome{State: BadRequest, Err: err}
	}

	request := &http.Request{
		Method:        startLine[0],
		Path:          startLine[1],
		Protocol:      protocol,
		Headers:       headers,
		KeepAlive:     keepAlive(protocol, headers),
		ContentLength: contentLength,
	}

	return Outcome{
		State:    Ok,
		Request:  request,
		Consumed: idx + len(terminator),
	}
}

// SplitHeaderBlock splits the start line into three tokens and collects the header lines.
// The block must consist of CRLF-terminated lines; the terminating blank line is optional.
// The last token of the start line keeps the rest of the line, so reason phrases containing
// spaces are preserved. Protocol versions aren't validated here, so the function is equally
// suitable for request and status lines.
func SplitHeaderBlock(block []byte) (startLine [3]string, headers *kv.Storage, err error) {
	lineEnd := bytes.Index(block, uf.S2B(crlf))
	if lineEnd <= 0 {
		return startLine, nil, status.ErrBadRequestLine
	}

	var ok bool
	if startLine, ok = splitStartLine(block[:lineEnd]); !ok {
		return startLine, nil, status.ErrBadRequestLine
	}

	headers = kv.New()
	rest := block[lineEnd+len(crlf):]

	for len(rest) > 0 {
		eol := bytes.Index(rest, uf.S2B(crlf))
		if eol == -1 {
			break
		}

		line := rest[:eol]
		rest = rest[eol+len(crlf):]

		if len(line) == 0 {
			break
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return startLine, nil, status.ErrBadHeaderLine
		}

		key := string(bytes.TrimSpace(line[:colon]))
		value := string(bytes.TrimSpace(line[colon+1:]))
		headers.Set(key, value)
	}

	return startLine, headers, nil
}

// splitStartLine extracts exactly three non-empty space-separated tokens. Runs of spaces
// between tokens are skipped, the third token spans till the end of the line.
func splitStartLine(line []byte) (tokens [3]string, ok bool) {
	for i := range tokens {
		line = bytes.TrimLeft(line, " ")
		if len(line) == 0 {
			return tokens, false
		}

		if i == len(tokens)-1 {
			tokens[i] = string(line)
			break
		}

		sp := bytes.IndexByte(line, ' ')
		if sp == -1 {
			return tokens, false
		}

		tokens[i] = string(line[:sp])
		line = line[sp+1:]
	}

	return tokens, true
}

func parseContentLength(headers *kv.Storage) (int64, error) {
	value, found := headers.Get("Content-Length")
	if !found {
		return 0, nil
	}

	length, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, status.ErrBadContentLength
	}

	return int64(length), nil
}

func keepAlive(protocol proto.Protocol, headers *kv.Storage) bool {
	connection := headers.Value("Connection")

	switch protocol {
	case proto.HTTP11:
		return !strcomp.EqualFold(connection, "close")
	case proto.HTTP10:
		return strcomp.EqualFold(connection, "keep-alive")
	default:
		return false
	}
}

// IndexTerminator looks for the header terminator in buff, assuming everything before from
// was already checked. Only the new data and up to 3 bytes of the previously checked data are
// scanned, as the terminator might be split between two reads. Returns the index of the
// terminator or -1.
func IndexTerminator(buff []byte, from int) int {
	start := max(0, from-(len(terminator)-1))
	if idx := bytes.Index(buff[start:], uf.S2B(terminator)); idx != -1 {
		return start + idx
	}

	return -1
}
