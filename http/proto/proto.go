package proto

const (
	protoTokenLength   = len("HTTP/x.x")
	majorVersionOffset = len("HTTP/x") - 1
	dotOffset          = len("HTTP/x.") - 1
	minorVersionOffset = len("HTTP/x.x") - 1
	httpScheme         = "HTTP/"
)

// Version is an HTTP version of a form HTTP/<digit>.<digit>. Whether the version is
// actually supported is not a business of this package.
type Version struct {
	Major, Minor uint8
}

var HTTP11 = Version{Major: 1, Minor: 1}

// String returns the version as it appears in a request line, e.g. HTTP/1.1
func (v Version) String() string {
	return string([]byte{'H', 'T', 'T', 'P', '/', '0' + v.Major, '.', '0' + v.Minor})
}

// Parse parses the protocol token. The scheme is case-sensitive.
func Parse(raw string) (v Version, ok bool) {
	if len(raw) != protoTokenLength || raw[:majorVersionOffset] != httpScheme || raw[dotOffset] != '.' {
		return v, false
	}

	major, minor := raw[majorVersionOffset], raw[minorVersionOffset]
	if !isDigit(major) || !isDigit(minor) {
		return v, false
	}

	return Version{Major: major - '0', Minor: minor - '0'}, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
