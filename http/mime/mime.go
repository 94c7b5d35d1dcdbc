package mime

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain"
	HTML        MIME = "text/html"
	JSON        MIME = "application/json"
)

type Charset = string

const (
	Unset Charset = ""
	UTF8  Charset = "utf-8"
)

// WithCharset renders the MIME with the charset parameter, unless the charset is unset.
func WithCharset(mime MIME, charset Charset) string {
	if charset == Unset {
		return mime
	}

	return mime + "; charset=" + charset
}
