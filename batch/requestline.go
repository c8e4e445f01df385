package batch

import (
	"strings"

	"github.com/indigo-web/odata/http/method"
	"github.com/indigo-web/odata/http/proto"
	"github.com/indigo-web/odata/kv"
)

// request parses an embedded request: request line, headers and the body, which lasts
// until the next delimiter.
func (p *Parser) request(contentID string) (req SubRequest, err error) {
	l, err := p.requestLine()
	if err != nil {
		return req, err
	}

	text := p.r.text(l)
	tokens := strings.Split(text, " ")
	if len(tokens) != 3 || len(tokens[0]) == 0 || len(tokens[1]) == 0 {
		return req, newError(InvalidStatusLine, "malformed request line %q", text)
	}

	version, ok := proto.Parse(tokens[2])
	if !ok {
		return req, newError(InvalidHTTPVersion, "bad protocol %q", tokens[2])
	}

	req.Method = method.Parse(tokens[0])
	if err = checkMethod(req.Method, tokens[0], p.depth > 0); err != nil {
		return req, err
	}

	headers := kv.NewPrealloc(p.cfg.Headers.Number.Default)
	blank, err := p.readHeaders(headers)
	if err != nil {
		return req, err
	}

	if _, ok = p.r.peek(); !ok {
		return req, p.eof()
	}

	if err = p.blankLine(blank, "request headers"); err != nil {
		return req, err
	}

	if err = checkForbiddenHeaders(headers); err != nil {
		return req, err
	}

	t, err := p.resolve(tokens[1], headers)
	if err != nil {
		return req, err
	}

	length, err := contentLength(headers)
	if err != nil {
		return req, err
	}

	span, err := p.body()
	if err != nil {
		return req, err
	}

	if length >= 0 && length < span.Len() {
		span.End = span.Start + length
	}

	if len(contentID) == 0 {
		contentID = headers.Value("Content-ID")
	}

	return SubRequest{
		Method:                  req.Method,
		Proto:                   version,
		Target:                  tokens[1],
		RawRequestURI:           t.requestURI,
		RawBaseURI:              p.base,
		RawODataPath:            t.odataPath,
		RawQueryPath:            t.queryPath,
		RawServiceResolutionURI: p.opts.ServiceResolutionURI,
		Headers:                 headers,
		ContentID:               contentID,
		Body:                    p.r.data[span.Start:span.End:span.End],
		Span:                    span,
	}, nil
}

// requestLine returns the request line of the part. Blank lines preceding it are tolerated
// only in non-strict mode.
func (p *Parser) requestLine() (line, error) {
	for {
		l, ok := p.r.peek()
		switch {
		case !ok:
			return l, p.eof()
		case p.isDelimiter(l):
			return l, newError(InvalidStatusLine, "part contains no request")
		case l.len() == 0:
			if p.opts.Strict {
				return l, newError(MissingBlankLine, "duplicated blank line before the request line")
			}

			p.r.next()
		default:
			p.r.next()
			return l, p.checkLineLength(l)
		}
	}
}

// body consumes lines until the next delimiter. The line terminator preceding the delimiter
// belongs to the delimiter, so isn't included.
func (p *Parser) body() (Span, error) {
	span := Span{Start: p.r.pos(), End: p.r.pos()}

	for {
		l, ok := p.r.peek()
		if !ok {
			return span, p.eof()
		}

		if p.isDelimiter(l) {
			return span, nil
		}

		p.r.next()
		span.End = l.end
	}
}
