package parser

import (
	"io"
	"mime"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// NewUTF8Reader converts body to UTF-8 when contentType declares another
// charset (e.g. "application/json; charset=ISO-8859-1"). Some catalog mirrors
// still serve ISO-8859-1 or Windows-1252 JSON.
//
// Without a charset parameter the body is JSON and therefore UTF-8, so it is
// returned unchanged. Unknown charset labels are treated the same way.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	if contentType == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	label := params["charset"]
	if label == "" {
		return body, nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return body, nil
	}
	return transform.NewReader(body, enc.NewDecoder()), nil
}
