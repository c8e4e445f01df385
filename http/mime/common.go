package mime

import (
	"strings"

	"github.com/indigo-web/odata/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain"
	JSON        MIME = "application/json"
	XML         MIME = "application/xml"
	Atom        MIME = "application/atom+xml"
	HTTP        MIME = "application/http"
	Mixed       MIME = "multipart/mixed"
)

// Param is a single media type parameter. Value is already unquoted, Quoted tells whether
// it was represented as a quoted string.
type Param struct {
	Name, Value string
	Quoted      bool
}

// MediaType is a parsed Content-Type-alike header value.
type MediaType struct {
	// Type is the type/subtype pair, lower-cased.
	Type   string
	Params []Param
}

// Param looks the parameter up by its case-insensitive name.
func (m MediaType) Param(name string) (param Param, found bool) {
	for _, p := range m.Params {
		if strcomp.EqualFold(p.Name, name) {
			return p, true
		}
	}

	return param, false
}

// Is tells whether the media type matches the MIME, ignoring parameters.
func (m MediaType) Is(mime MIME) bool {
	return m.Type == mime
}

// Parse parses a media type of a form type/subtype *( ";" name=value ). Both type and subtype
// must be non-empty tokens, parameter values are either tokens or quoted strings.
func Parse(header string) (mt MediaType, ok bool) {
	value, params := strutil.CutHeader(header)
	typ, subtype, found := strings.Cut(value, "/")
	if !found || !strutil.IsToken(typ) || !strutil.IsToken(subtype) {
		return mt, false
	}

	mt.Type = strings.ToLower(value)

	for key, val := range strutil.WalkKV(params) {
		if len(key) == 0 {
			return mt, false
		}

		mt.Params = append(mt.Params, Param{
			Name:   key,
			Value:  strutil.Unquote(val),
			Quoted: strutil.IsQuoted(val),
		})
	}

	return mt, true
}

// Complies returns whether two MIMEs are compatible. Empty MIME is
// considered compatible with any other MIME
func Complies(mime MIME, with string) bool {
	// get rid of parameters if any
	with, _ = strutil.CutHeader(with)
	return len(with) == 0 || strcomp.EqualFold(with, mime)
}
