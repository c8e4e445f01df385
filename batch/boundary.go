package batch

import (
	"github.com/indigo-web/odata/http/mime"
	"github.com/indigo-web/odata/internal/strutil"
)

const maxBoundaryLength = 70

type delimiter uint8

const (
	content delimiter = iota
	openDelimiter
	closeDelimiter
)

// classify tells whether the line is a delimiter of the boundary. The comparison is
// byte-exact, however trailing spaces and tabs are allowed after the delimiter.
func classify(text, boundary string) delimiter {
	if len(text) < len(boundary)+2 || text[0] != '-' || text[1] != '-' {
		return content
	}

	if text[2:2+len(boundary)] != boundary {
		return content
	}

	rest, kind := text[2+len(boundary):], openDelimiter
	if len(rest) >= 2 && rest[0] == '-' && rest[1] == '-' {
		rest, kind = rest[2:], closeDelimiter
	}

	if len(strutil.RStripWS(rest)) > 0 {
		return content
	}

	return kind
}

// boundaryOf extracts the boundary from a multipart/mixed media type.
func boundaryOf(mt mime.MediaType, header string) (string, error) {
	if !mt.Is(mime.Mixed) {
		return "", newError(InvalidContentType, "expected %s, got %q", mime.Mixed, header)
	}

	param, found := mt.Param("boundary")
	if !found {
		return "", newError(InvalidContentType, "no boundary parameter in %q", header)
	}

	if !isValidBoundary(param.Value, param.Quoted) {
		return "", newError(InvalidBoundary, "malformed boundary %q", param.Value)
	}

	return param.Value, nil
}

// batchBoundary parses the Content-Type header of the whole batch.
func batchBoundary(contentType string) (string, error) {
	mt, ok := mime.Parse(contentType)
	if !ok {
		return "", newError(InvalidContentType, "malformed content type %q", contentType)
	}

	return boundaryOf(mt, contentType)
}

// isValidBoundary checks the boundary against RFC 2046. Reserved characters are allowed
// only if the value was quoted.
func isValidBoundary(boundary string, quoted bool) bool {
	if len(boundary) == 0 || len(boundary) > maxBoundaryLength {
		return false
	}

	lut := &boundaryChars
	if quoted {
		lut = &quotedBoundaryChars
	}

	for i := 0; i < len(boundary); i++ {
		if !lut[boundary[i]] {
			return false
		}
	}

	return boundary[len(boundary)-1] != ' '
}

var boundaryChars, quotedBoundaryChars = func() (plain, quoted [256]bool) {
	for c := 'a'; c <= 'z'; c++ {
		plain[c], plain[c-'a'+'A'] = true, true
	}

	for c := '0'; c <= '9'; c++ {
		plain[c] = true
	}

	for _, c := range "'+_-." {
		plain[c] = true
	}

	quoted = plain
	for _, c := range "(),/:=? " {
		quoted[c] = true
	}

	return plain, quoted
}()
