// Package rawreq parses captured HTTP/1.x requests, as they were sent over the wire.
package rawreq

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/odata/http/proto"
	"github.com/indigo-web/odata/internal/strutil"
	"github.com/indigo-web/odata/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

type Request struct {
	Method  string
	Target  string
	Proto   proto.Version
	Headers *kv.Storage
	Body    []byte
}

// Parse parses the request. The body is determined by either Content-Length or chunked
// Transfer-Encoding, and if neither is presented, everything after the headers is the body.
// Identity bodies refer to data directly.
func Parse(data []byte) (request Request, err error) {
	raw := uf.B2S(data)

	requestLine, raw, found := strings.Cut(raw, "\r\n")
	if !found {
		return request, errors.New("rawreq: bad request: only request line is presented")
	}

	fields := strings.Split(requestLine, " ")
	if len(fields) != 3 || len(fields[0]) == 0 || len(fields[1]) == 0 {
		return request, fmt.Errorf("rawreq: bad request line %q", requestLine)
	}

	request.Method, request.Target = fields[0], fields[1]
	request.Proto, found = proto.Parse(fields[2])
	if !found {
		return request, fmt.Errorf("rawreq: bad protocol %q", fields[2])
	}

	request.Headers = kv.New()

	for {
		var headerLine string
		headerLine, raw, found = strings.Cut(raw, "\r\n")
		if !found {
			return request, errors.New("rawreq: bad request: headers aren't terminated by a blank line")
		}

		if len(headerLine) == 0 {
			break
		}

		key, value, err := parseHeaderLine(headerLine)
		if err != nil {
			return request, err
		}

		request.Headers.Add(key, value)
	}

	request.Body, err = processBody(request.Headers, data[len(data)-len(raw):])

	return request, err
}

func parseHeaderLine(line string) (key, value string, err error) {
	key, value, found := strings.Cut(line, ":")
	if !found || !strutil.IsToken(key) {
		return "", "", fmt.Errorf("rawreq: bad header line %q", line)
	}

	return key, strutil.StripWS(value), nil
}

func processBody(headers *kv.Storage, data []byte) ([]byte, error) {
	if headers.Has("Transfer-Encoding") {
		if headers.Count("Transfer-Encoding") != 1 || !strcomp.EqualFold(headers.Value("Transfer-Encoding"), "chunked") {
			return nil, fmt.Errorf("rawreq: cannot process encodings: %s", strings.Join(values(headers, "Transfer-Encoding"), ", "))
		}

		return processChunkedBody(data, headers.Has("Trailer"))
	}

	switch headers.Count("Content-Length") {
	case 0:
		return data, nil
	case 1:
		length, err := strconv.Atoi(headers.Value("Content-Length"))
		if err != nil || length < 0 {
			return nil, fmt.Errorf("rawreq: bad Content-Length %q", headers.Value("Content-Length"))
		}

		return processPlainBody(data, length)
	default:
		return nil, fmt.Errorf("rawreq: too many content-lengths: %s", strings.Join(values(headers, "Content-Length"), ", "))
	}
}

func processChunkedBody(data []byte, trailer bool) ([]byte, error) {
	var body []byte
	parser := chunkedbody.NewParser(chunkedbody.DefaultSettings())

	for {
		chunk, extra, err := parser.Parse(data, trailer)
		body = append(body, chunk...)

		switch err {
		case nil:
		case io.EOF:
			return body, nil
		default:
			return nil, fmt.Errorf("rawreq: bad chunked body: %w", err)
		}

		if len(extra) == 0 {
			return nil, errors.New("rawreq: chunked body isn't terminated")
		}

		data = extra
	}
}

func processPlainBody(data []byte, length int) ([]byte, error) {
	switch {
	case len(data) < length:
		return nil, fmt.Errorf("rawreq: body is %d bytes shorter than declared", length-len(data))
	case len(data) > length:
		return nil, errors.New("rawreq: got extra data after the body, pipelining isn't supported")
	default:
		return data, nil
	}
}

func values(headers *kv.Storage, key string) (vals []string) {
	for value := range headers.Values(key) {
		vals = append(vals, value)
	}

	return vals
}
