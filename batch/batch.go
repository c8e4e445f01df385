package batch

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/indigo-web/odata/config"
	"github.com/indigo-web/odata/kv"
	"github.com/rs/zerolog"
)

// Options describe a single batch to be parsed.
type Options struct {
	// ContentType is the Content-Type header value of the batch request. The boundary
	// is extracted from it.
	ContentType string
	// ServiceRoot is the URI every embedded request is resolved against.
	ServiceRoot *url.URL
	// ServiceResolutionURI is passed through into every decoded request as is.
	ServiceResolutionURI string
	// Strict disables tolerance for bare LF line terminators and duplicated or missing
	// blank lines.
	Strict bool
}

type state uint8

const (
	statePreamble state = iota
	statePart
	stateEpilogue
)

type frame struct {
	boundary string
	state    state
	requests []SubRequest
}

// Parser decodes batch bodies. It may be reused, however it mustn't be used concurrently:
// each goroutine needs its own instance.
type Parser struct {
	cfg      *config.Config
	log      zerolog.Logger
	opts     Options
	base     string
	rootPath string
	r        lineReader
	frames   [maxDepth]frame
	depth    int
	groups   []Group
	partHdrs *kv.Storage
}

func NewParser(cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Parser{
		cfg:      cfg,
		log:      zerolog.Nop(),
		partHdrs: kv.NewPrealloc(cfg.Headers.Number.Default),
	}
}

// WithLogger sets the logger debug events are written to. By default, nothing is logged.
func (p *Parser) WithLogger(logger zerolog.Logger) *Parser {
	p.log = logger
	return p
}

// Parse is a shorthand for parsing a single batch with the default config.
func Parse(
	contentType string, serviceRoot *url.URL, rawServiceResolutionURI string, strict bool, body io.Reader,
) ([]Group, error) {
	return NewParser(config.Default()).Parse(Options{
		ContentType:          contentType,
		ServiceRoot:          serviceRoot,
		ServiceResolutionURI: rawServiceResolutionURI,
		Strict:               strict,
	}, body)
}

// Parse reads the whole body and decodes it. Failures of the reader are returned wrapped,
// any malformation of the batch itself is reported as *Error.
func (p *Parser) Parse(opts Options, body io.Reader) ([]Group, error) {
	data, err := io.ReadAll(io.LimitReader(body, p.cfg.Body.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("batch: read body: %w", err)
	}

	if int64(len(data)) > p.cfg.Body.MaxSize {
		return nil, newError(InvalidContent, "body exceeds %d bytes", p.cfg.Body.MaxSize)
	}

	return p.ParseBytes(opts, data)
}

// ParseBytes decodes the batch from the buffer. The decoded requests refer to the buffer
// directly, so it must stay unmodified for as long as they are in use.
func (p *Parser) ParseBytes(opts Options, data []byte) ([]Group, error) {
	if opts.ServiceRoot == nil {
		return nil, errors.New("batch: service root is not set")
	}

	groups, err := p.parse(opts, data)
	p.release()
	if err != nil {
		p.log.Debug().Err(err).Msg("batch rejected")
		return nil, err
	}

	p.log.Debug().Int("groups", len(groups)).Int("size", len(data)).Msg("batch decoded")
	return groups, nil
}

func (p *Parser) parse(opts Options, data []byte) ([]Group, error) {
	boundary, err := batchBoundary(opts.ContentType)
	if err != nil {
		return nil, err
	}

	p.opts = opts
	p.base = strings.TrimSuffix(opts.ServiceRoot.String(), "/")
	p.rootPath = strings.TrimSuffix(opts.ServiceRoot.EscapedPath(), "/")
	p.r.reset(data, opts.Strict)
	p.depth = 0
	p.frames[0] = frame{boundary: boundary, state: statePreamble}
	p.groups = make([]Group, 0, p.cfg.Parts.Batch.Default)

	if err = p.run(); err != nil {
		return nil, err
	}

	return p.groups, nil
}

// release drops references to the last parsed batch.
func (p *Parser) release() {
	p.r.reset(nil, false)
	p.frames = [maxDepth]frame{}
	p.groups = nil
	p.partHdrs.Clear()
}

// run drives the state machine over the frames stack until the outermost epilogue.
func (p *Parser) run() error {
	for {
		f := &p.frames[p.depth]

		switch f.state {
		case statePreamble:
			if err := p.preamble(f); err != nil {
				return err
			}
		case statePart:
			if err := p.part(); err != nil {
				return err
			}
		case stateEpilogue:
			if p.depth == 0 {
				p.r.skip()
				return nil
			}

			l, ok := p.r.peek()
			if !ok {
				return p.eof()
			}

			if classify(p.r.text(l), p.frames[p.depth-1].boundary) == content {
				p.r.next()
				continue
			}

			if err := p.closeChangeset(); err != nil {
				return err
			}

			if err := p.advance(); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("BUG: unexpected state: %v", f.state))
		}
	}
}

// preamble skips everything until the first open delimiter of the frame.
func (p *Parser) preamble(f *frame) error {
	l, ok := p.r.next()
	if !ok {
		return p.eof()
	}

	text := p.r.text(l)
	if p.depth > 0 && classify(text, p.frames[p.depth-1].boundary) != content {
		return newError(MissingBoundaryDelimiter, "changeset %q contains no parts", f.boundary)
	}

	switch classify(text, f.boundary) {
	case openDelimiter:
		f.state = statePart
	case closeDelimiter:
		return newError(MissingBoundaryDelimiter, "close delimiter of %q before any part", f.boundary)
	}

	return nil
}

// part decodes a single body part. It is either a request, which is followed by
// a delimiter, or a changeset, which is entered.
func (p *Parser) part() error {
	hdr, err := p.partHeaders()
	if err != nil {
		return err
	}

	if hdr.kind == changesetPart {
		p.openChangeset(hdr.boundary)
		return nil
	}

	req, err := p.request(hdr.contentID)
	if err != nil {
		return err
	}

	if p.depth > 0 {
		err = p.addToChangeset(req)
	} else {
		err = p.emit(Group{Requests: []SubRequest{req}})
		p.log.Debug().
			Stringer("method", req.Method).
			Str("uri", req.RawRequestURI).
			Msg("request decoded")
	}

	if err != nil {
		return err
	}

	return p.advance()
}

// advance consumes the delimiter terminating a part of the current frame.
func (p *Parser) advance() error {
	l, ok := p.r.next()
	if !ok {
		return p.eof()
	}

	f := &p.frames[p.depth]
	switch classify(p.r.text(l), f.boundary) {
	case openDelimiter:
		f.state = statePart
	case closeDelimiter:
		f.state = stateEpilogue
	default:
		// delimiter of the enclosing batch while the changeset is still open
		return newError(MissingCloseDelimiter, "changeset %q isn't closed", f.boundary)
	}

	return nil
}

func (p *Parser) emit(group Group) error {
	if len(p.groups) >= p.cfg.Parts.Batch.Maximal {
		return newError(InvalidContent, "too many parts, at most %d are allowed", p.cfg.Parts.Batch.Maximal)
	}

	p.groups = append(p.groups, group)
	return nil
}

// eof reports the error for the stream being over while the batch isn't closed yet.
func (p *Parser) eof() error {
	f := &p.frames[p.depth]
	if p.depth == 0 && f.state == statePreamble {
		return newError(MissingBoundaryDelimiter, "no delimiter of %q found", f.boundary)
	}

	if last, ok := p.r.lastLine(); ok && !last.terminated() {
		return newError(InvalidContent, "unexpected end of stream in the middle of a line")
	}

	if f.state == statePreamble {
		return newError(MissingBoundaryDelimiter, "no delimiter of changeset %q found", f.boundary)
	}

	return newError(MissingCloseDelimiter, "no close delimiter of %q found", f.boundary)
}

func (p *Parser) isDelimiter(l line) bool {
	text := p.r.text(l)

	for i := 0; i <= p.depth; i++ {
		if classify(text, p.frames[i].boundary) != content {
			return true
		}
	}

	return false
}

func (p *Parser) checkLineLength(l line) error {
	if l.len() > p.cfg.Line.MaxLength {
		return newError(InvalidContent, "line exceeds %d bytes", p.cfg.Line.MaxLength)
	}

	return nil
}
