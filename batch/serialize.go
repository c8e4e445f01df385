package batch

import (
	"io"

	"github.com/google/uuid"
	"github.com/indigo-web/odata/http/mime"
	"github.com/indigo-web/odata/http/proto"
)

// NewBoundary generates a unique boundary, e.g. batch_36522ad7-fc75-4b56-8c71-56071383e77b
func NewBoundary(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// ContentType renders the Content-Type header value of a batch with the boundary. The
// boundary is quoted if it contains characters, which aren't allowed otherwise.
func ContentType(boundary string) string {
	if isValidBoundary(boundary, false) {
		return mime.Mixed + "; boundary=" + boundary
	}

	return mime.Mixed + `; boundary="` + boundary + `"`
}

// Write renders the groups as a batch body delimited by the boundary. Each changeset gets
// its own freshly generated boundary. Requests are written with their resolved URIs, so
// decoding the output against the same service root results in the same requests.
func Write(w io.Writer, boundary string, groups []Group) error {
	var buff []byte

	for _, group := range groups {
		if !group.Changeset {
			for _, req := range group.Requests {
				buff = openDelim(buff, boundary)
				buff = requestPart(buff, req)
			}

			continue
		}

		buff = openDelim(buff, boundary)
		changeset := NewBoundary("changeset")
		buff = header(buff, "Content-Type", ContentType(changeset))
		buff = crlf(buff)

		for _, req := range group.Requests {
			buff = openDelim(buff, changeset)
			buff = requestPart(buff, req)
		}

		buff = closeDelim(buff, changeset)
	}

	buff = closeDelim(buff, boundary)

	_, err := w.Write(buff)
	return err
}

func requestPart(buff []byte, req SubRequest) []byte {
	buff = header(buff, "Content-Type", mime.HTTP)
	buff = header(buff, "Content-Transfer-Encoding", "binary")
	if len(req.ContentID) > 0 {
		buff = header(buff, "Content-ID", req.ContentID)
	}

	buff = crlf(buff)

	uri := req.RawRequestURI
	if len(uri) == 0 {
		uri = req.Target
	}

	version := req.Proto
	if version == (proto.Version{}) {
		version = proto.HTTP11
	}

	buff = append(buff, req.Method.String()...)
	buff = append(buff, ' ')
	buff = append(buff, uri...)
	buff = append(buff, ' ')
	buff = append(buff, version.String()...)
	buff = crlf(buff)

	if req.Headers != nil {
		for key, value := range req.Headers.Pairs() {
			buff = header(buff, key, value)
		}
	}

	buff = crlf(buff)
	buff = append(buff, req.Body...)

	return crlf(buff)
}

func header(b []byte, key, value string) []byte {
	b = append(b, key...)
	b = append(b, ':', ' ')
	b = append(b, value...)

	return crlf(b)
}

func openDelim(b []byte, boundary string) []byte {
	b = append(b, '-', '-')
	b = append(b, boundary...)
	return crlf(b)
}

func closeDelim(b []byte, boundary string) []byte {
	b = append(b, '-', '-')
	b = append(b, boundary...)
	b = append(b, '-', '-')
	return crlf(b)
}

func crlf(b []byte) []byte {
	return append(b, '\r', '\n')
}
