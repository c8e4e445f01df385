package batch

import (
	"strings"

	"github.com/indigo-web/odata/http/mime"
	"github.com/indigo-web/odata/internal/strutil"
	"github.com/indigo-web/odata/kv"
)

type partKind uint8

const (
	requestPart partKind = iota + 1
	changesetPart
)

type partHeader struct {
	kind      partKind
	boundary  string
	contentID string
}

// readHeaders reads a header block into the storage. The block is over as soon as a line,
// which isn't a header, is met. If that line is a blank one, it's consumed and true is
// returned. Delimiters are never consumed.
func (p *Parser) readHeaders(into *kv.Storage) (blank bool, err error) {
	for {
		l, ok := p.r.peek()
		if !ok || p.isDelimiter(l) {
			return false, nil
		}

		if l.len() == 0 {
			p.r.next()
			return true, nil
		}

		if err = p.checkLineLength(l); err != nil {
			return false, err
		}

		key, value, ok := splitHeader(p.r.text(l))
		if !ok {
			return false, nil
		}

		if into.Len() >= p.cfg.Headers.Number.Maximal {
			return false, newError(InvalidHeader, "too many headers, at most %d are allowed", p.cfg.Headers.Number.Maximal)
		}

		into.Add(key, value)
		p.r.next()
	}
}

// blankLine enforces the blank line terminating a header block in strict mode.
func (p *Parser) blankLine(blank bool, block string) error {
	if blank || !p.opts.Strict {
		return nil
	}

	if _, ok := p.r.peek(); !ok {
		return p.eof()
	}

	return newError(MissingBlankLine, "%s must be terminated by a blank line", block)
}

// partHeaders reads and validates MIME headers of a body part.
func (p *Parser) partHeaders() (hdr partHeader, err error) {
	headers := p.partHdrs.Clear()

	blank, err := p.readHeaders(headers)
	if err != nil {
		return hdr, err
	}

	if _, ok := p.r.peek(); !ok {
		return hdr, p.eof()
	}

	if err = p.blankLine(blank, "part headers"); err != nil {
		return hdr, err
	}

	contentType, found := headers.Get("Content-Type")
	if !found {
		return hdr, newError(MissingContentType, "part lacks Content-Type")
	}

	mt, ok := mime.Parse(contentType)
	if !ok {
		return hdr, newError(InvalidContentType, "malformed part content type %q", contentType)
	}

	hdr.contentID = headers.Value("Content-ID")

	switch {
	case mt.Is(mime.HTTP):
		hdr.kind = requestPart
		return hdr, checkTransferEncoding(headers, true)
	case mt.Is(mime.Mixed):
		hdr.kind = changesetPart
		if err = checkTransferEncoding(headers, false); err != nil {
			return hdr, err
		}

		hdr.boundary, err = p.changesetBoundary(mt, contentType)
		return hdr, err
	default:
		return hdr, newError(InvalidContentType, "part content type must be either %s or %s, got %q", mime.HTTP, mime.Mixed, contentType)
	}
}

// splitHeader splits the header line into name and value. Name must be a token.
func splitHeader(text string) (key, value string, ok bool) {
	colon := strings.IndexByte(text, ':')
	if colon == -1 || !strutil.IsToken(text[:colon]) {
		return "", "", false
	}

	return text[:colon], strutil.StripWS(text[colon+1:]), true
}
