package batch

import (
	"github.com/indigo-web/odata/http/method"
	"github.com/indigo-web/odata/http/proto"
	"github.com/indigo-web/odata/kv"
)

// Span is a half-open range [Start, End) of absolute byte offsets in the batch body.
type Span struct {
	Start, End int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// SubRequest is a single operation decoded from a batch. Its strings and the body are
// borrowed from the batch body buffer and must be treated as read-only.
type SubRequest struct {
	Method method.Method
	Proto  proto.Version
	// Target is the request-target exactly as it appears in the request line.
	Target string
	// RawRequestURI is the target resolved against the service root, e.g.
	// http://localhost/odata/Employees('1')?$select=Name
	RawRequestURI string
	// RawBaseURI is the service root without the trailing slash.
	RawBaseURI string
	// RawODataPath is the resource path relative to the service root, with a leading
	// slash, e.g. /Employees('1'). Empty when the service root itself is addressed.
	RawODataPath string
	// RawQueryPath is the query string without the question mark.
	RawQueryPath            string
	RawServiceResolutionURI string
	Headers                 *kv.Storage
	// ContentID is taken from the part headers or, if absent there, from the request headers.
	ContentID string
	Body      []byte
	Span      Span
}

// Group is either a single retrieve operation or a changeset. Requests of a changeset
// must be applied as a unit by whoever executes them, the parser only preserves the
// grouping.
type Group struct {
	Changeset bool
	Requests  []SubRequest
}
