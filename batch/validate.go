package batch

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/indigo-web/odata/http/method"
	"github.com/indigo-web/odata/internal/strutil"
	"github.com/indigo-web/odata/kv"
	"github.com/indigo-web/utils/strcomp"
)

// forbiddenHeaders make no sense or are unsafe inside an embedded request.
var forbiddenHeaders = [...]string{
	"Authorization", "Expect", "From", "Range", "Max-Forwards", "TE",
}

func checkForbiddenHeaders(headers *kv.Storage) error {
	for _, name := range forbiddenHeaders {
		if headers.Has(name) {
			return newError(ForbiddenHeader, "header %s is not allowed in a batched request", name)
		}
	}

	return nil
}

// checkTransferEncoding validates Content-Transfer-Encoding of a part. Binary is the
// only one allowed.
func checkTransferEncoding(headers *kv.Storage, mandatory bool) error {
	encoding, found := headers.Get("Content-Transfer-Encoding")
	switch {
	case !found && mandatory:
		return newError(MissingContentTransferEncoding, "part lacks Content-Transfer-Encoding")
	case found && !strcomp.EqualFold(encoding, "binary"):
		return newError(InvalidContentTransferEncoding, "expected binary, got %q", encoding)
	default:
		return nil
	}
}

// checkMethod validates the method against the context it's used in: changesets contain
// only mutating operations, everything outside is a retrieve operation.
func checkMethod(m method.Method, raw string, inChangeset bool) error {
	if inChangeset {
		if !m.IsMutating() {
			return newError(InvalidChangesetMethod, "method %q is not allowed inside a changeset", raw)
		}

		return nil
	}

	if !m.IsRetrieve() {
		return newError(InvalidQueryOperationMethod, "method %q is not allowed outside a changeset", raw)
	}

	return nil
}

// contentLength returns the declared length. Negative value is returned when the header
// isn't presented, but also when it's negative itself, as such values are ignored.
func contentLength(headers *kv.Storage) (int, error) {
	value, found := headers.Get("Content-Length")
	if !found {
		return -1, nil
	}

	length, err := strconv.Atoi(strutil.StripWS(value))
	if err != nil {
		return 0, newError(InvalidHeader, "bad Content-Length %q", value)
	}

	return length, nil
}

// checkHost ensures there's exactly one Host header and it addresses the service root.
func checkHost(headers *kv.Storage, root *url.URL) error {
	if n := headers.Count("Host"); n != 1 {
		return newError(MissingMandatoryHeader, "absolute-path request requires exactly one Host header, got %d", n)
	}

	host := headers.Value("Host")
	if authority(host, root.Scheme) != authority(root.Host, root.Scheme) {
		return newError(InvalidURI, "host %q doesn't match the service root %q", host, root.Host)
	}

	return nil
}

// authority normalizes host[:port] for comparison: the host is lower-cased and the default
// port of the scheme is appended if omitted.
func authority(host, scheme string) string {
	host = strings.ToLower(strutil.StripWS(host))
	if strings.LastIndexByte(host, ':') > strings.LastIndexByte(host, ']') {
		return host
	}

	switch strings.ToLower(scheme) {
	case "https":
		return host + ":443"
	default:
		return host + ":80"
	}
}
