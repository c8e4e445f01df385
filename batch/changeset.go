package batch

import (
	"github.com/indigo-web/odata/http/mime"
)

// maxDepth is the batch itself plus a single level of changesets.
const maxDepth = 2

// changesetBoundary validates the nested multipart part which opens a changeset.
func (p *Parser) changesetBoundary(mt mime.MediaType, header string) (string, error) {
	if p.depth+1 >= maxDepth {
		return "", newError(InvalidContentType, "changesets can't be nested: %q", header)
	}

	boundary, err := boundaryOf(mt, header)
	if err != nil {
		return "", err
	}

	for i := 0; i <= p.depth; i++ {
		if p.frames[i].boundary == boundary {
			return "", newError(InvalidBoundary, "changeset reuses the enclosing boundary %q", boundary)
		}
	}

	return boundary, nil
}

// openChangeset enters the changeset. Its preamble starts right after the part headers.
func (p *Parser) openChangeset(boundary string) {
	p.depth++
	p.frames[p.depth] = frame{
		boundary: boundary,
		state:    statePreamble,
		requests: make([]SubRequest, 0, p.cfg.Parts.Changeset.Default),
	}
}

// closeChangeset emits the changeset as a single group and returns to the enclosing batch.
func (p *Parser) closeChangeset() error {
	f := &p.frames[p.depth]
	p.depth--

	if err := p.emit(Group{Changeset: true, Requests: f.requests}); err != nil {
		return err
	}

	p.log.Debug().
		Str("boundary", f.boundary).
		Int("requests", len(f.requests)).
		Msg("changeset decoded")

	*f = frame{}
	return nil
}

// addToChangeset appends the request to the currently open changeset.
func (p *Parser) addToChangeset(req SubRequest) error {
	f := &p.frames[p.depth]
	if len(f.requests) >= p.cfg.Parts.Changeset.Maximal {
		return newError(InvalidContent, "too many requests in changeset %q, at most %d are allowed", f.boundary, p.cfg.Parts.Changeset.Maximal)
	}

	f.requests = append(f.requests, req)
	return nil
}
