package batch

import (
	"strings"

	"github.com/indigo-web/odata/kv"
)

type target struct {
	requestURI, odataPath, queryPath string
}

// resolve resolves the request-target against the service root. Three forms are allowed:
// absolute URI, which must point inside the service root, absolute path, which requires
// a matching Host header, and a path relative to the service root.
func (p *Parser) resolve(raw string, headers *kv.Storage) (target, error) {
	switch {
	case hasScheme(raw):
		rest, ok := cutRoot(raw, p.base)
		if !ok {
			return target{}, newError(InvalidURI, "%q is outside of the service root %q", raw, p.base)
		}

		return p.relative(raw, rest)
	case raw[0] == '/':
		if err := checkHost(headers, p.opts.ServiceRoot); err != nil {
			return target{}, err
		}

		rest, ok := cutRoot(raw, p.rootPath)
		if !ok {
			return target{}, newError(InvalidURI, "%q is outside of the service root path %q", raw, p.rootPath)
		}

		return p.relative(raw, rest)
	default:
		return p.relative(raw, raw)
	}
}

func (p *Parser) relative(raw, rel string) (target, error) {
	path, query, _ := strings.Cut(rel, "?")
	if strings.HasPrefix(path, "/") {
		return target{}, newError(InvalidURI, "%q contains an empty path segment", raw)
	}

	t := target{queryPath: query}
	if len(path) > 0 {
		t.odataPath = "/" + path
	}

	t.requestURI = p.base + t.odataPath
	if len(query) > 0 {
		t.requestURI += "?" + query
	}

	return t, nil
}

// cutRoot strips the root prefix. The remainder is returned without the separating slash.
func cutRoot(raw, root string) (rest string, ok bool) {
	rest, ok = strings.CutPrefix(raw, root)
	if !ok {
		return "", false
	}

	switch {
	case len(rest) == 0, rest[0] == '?':
		return rest, true
	case rest[0] == '/':
		return rest[1:], true
	default:
		return "", false
	}
}

// hasScheme tells whether the target is an absolute URI, i.e. starts with scheme://
func hasScheme(raw string) bool {
	sep := strings.Index(raw, "://")
	if sep <= 0 || !isAlpha(raw[0]) {
		return false
	}

	for i := 1; i < sep; i++ {
		if c := raw[i]; !isAlpha(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}

	return true
}

func isAlpha(c byte) bool {
	c |= 0x20
	return c >= 'a' && c <= 'z'
}
