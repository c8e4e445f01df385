package batch

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/indigo-web/odata/config"
	"github.com/indigo-web/odata/http/method"
	"github.com/indigo-web/odata/http/proto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testBoundary    = "batch_36522ad7-fc75-4b56-8c71-56071383e77b"
	testChangeset   = "changeset_77162fcd-b8da-41ac-a9f8-9357efbbd621"
	testServiceRoot = "http://localhost/odata/"
)

func serviceRoot(t *testing.T) *url.URL {
	root, err := url.Parse(testServiceRoot)
	require.NoError(t, err)
	return root
}

func join(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

func httpPart(boundary string, partHeaders []string, request ...string) []string {
	out := []string{"--" + boundary, "Content-Type: application/http", "Content-Transfer-Encoding: binary"}
	out = append(out, partHeaders...)
	out = append(out, "")
	return append(out, request...)
}

func changeset(boundary string, parts ...[]string) []string {
	out := []string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + boundary, ""}
	for _, part := range parts {
		out = append(out, part...)
	}

	return append(out, "--"+boundary+"--")
}

func batchBody(parts ...[]string) string {
	var all []string
	for _, part := range parts {
		all = append(all, part...)
	}

	return join(append(all, "--"+testBoundary+"--", "")...)
}

func getEmployees(headers ...string) []string {
	request := append([]string{"GET Employees('1')?$select=Name HTTP/1.1"}, headers...)
	return httpPart(testBoundary, nil, append(request, "")...)
}

func postEmployee(headers ...string) []string {
	request := append([]string{"POST Employees HTTP/1.1", "Content-Type: application/json"}, headers...)
	return httpPart(testChangeset, []string{"Content-ID: 1"}, append(request, "", `{"Name":"Walter"}`)...)
}

func parse(t *testing.T, strict bool, body string) ([]Group, error) {
	return Parse(ContentType(testBoundary), serviceRoot(t), "/odata", strict, strings.NewReader(body))
}

func requireKey(t *testing.T, err error, key Key) {
	t.Helper()
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, key, e.Key, e.Error())
}

func sampleBody() string {
	return batchBody(
		getEmployees("Accept: application/json"),
		changeset(testChangeset,
			postEmployee(),
			httpPart(testChangeset, []string{"Content-ID: 2"},
				"PATCH $1 HTTP/1.1", "Content-Type: application/json", "", `{"Age":42}`,
			),
			httpPart(testChangeset, nil, "DELETE Employees('2') HTTP/1.1", ""),
		),
	)
}

func TestParse(t *testing.T) {
	t.Run("retrieve and changeset", func(t *testing.T) {
		groups, err := parse(t, true, sampleBody())
		require.NoError(t, err)
		require.Len(t, groups, 2)

		require.False(t, groups[0].Changeset)
		require.Len(t, groups[0].Requests, 1)
		get := groups[0].Requests[0]
		require.Equal(t, method.GET, get.Method)
		require.Equal(t, proto.HTTP11, get.Proto)
		require.Equal(t, "Employees('1')?$select=Name", get.Target)
		require.Equal(t, "http://localhost/odata/Employees('1')?$select=Name", get.RawRequestURI)
		require.Equal(t, "http://localhost/odata", get.RawBaseURI)
		require.Equal(t, "/Employees('1')", get.RawODataPath)
		require.Equal(t, "$select=Name", get.RawQueryPath)
		require.Equal(t, "/odata", get.RawServiceResolutionURI)
		require.Equal(t, "application/json", get.Headers.Value("accept"))
		require.Empty(t, get.Body)

		require.True(t, groups[1].Changeset)
		require.Len(t, groups[1].Requests, 3)

		post := groups[1].Requests[0]
		require.Equal(t, method.POST, post.Method)
		require.Equal(t, "1", post.ContentID)
		require.Equal(t, "/Employees", post.RawODataPath)
		require.Empty(t, post.RawQueryPath)
		require.Equal(t, "http://localhost/odata/Employees", post.RawRequestURI)
		require.Equal(t, `{"Name":"Walter"}`, string(post.Body))

		patch := groups[1].Requests[1]
		require.Equal(t, method.PATCH, patch.Method)
		require.Equal(t, "2", patch.ContentID)
		require.Equal(t, "/$1", patch.RawODataPath)
		require.Equal(t, `{"Age":42}`, string(patch.Body))

		del := groups[1].Requests[2]
		require.Equal(t, method.DELETE, del.Method)
		require.Empty(t, del.ContentID)
		require.Zero(t, del.Headers.Len())
		require.Empty(t, del.Body)
	})

	t.Run("preamble and epilogue", func(t *testing.T) {
		body := "this is a preamble\r\n--not a delimiter\r\n" + sampleBody() + "this is an epilogue\r\nwithout a trailing line break"
		groups, err := parse(t, true, body)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		for _, group := range groups {
			for _, req := range group.Requests {
				require.NotContains(t, string(req.Body), "preamble")
				require.NotContains(t, string(req.Body), "epilogue")
			}
		}
	})

	t.Run("changeset preamble and epilogue", func(t *testing.T) {
		body := batchBody(
			[]string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + testChangeset, "", "changeset preamble"},
			postEmployee(),
			[]string{"--" + testChangeset + "--", "changeset epilogue", ""},
		)

		groups, err := parse(t, true, body)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Equal(t, `{"Name":"Walter"}`, string(groups[0].Requests[0].Body))
	})

	t.Run("quoted boundary with reserved chars", func(t *testing.T) {
		const boundary = "batch_1.2+34:2j)0?"
		body := join(
			"--"+boundary,
			"Content-Type: application/http",
			"Content-Transfer-Encoding: binary",
			"",
			"GET Employees HTTP/1.1",
			"",
			"--"+boundary+"--",
		)

		groups, err := Parse(`multipart/mixed; boundary="`+boundary+`"`, serviceRoot(t), "", true, strings.NewReader(body))
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Equal(t, "/Employees", groups[0].Requests[0].RawODataPath)
	})

	t.Run("case-insensitive content type", func(t *testing.T) {
		groups, err := Parse("Multipart/Mixed; BOUNDARY="+testBoundary, serviceRoot(t), "", true, strings.NewReader(sampleBody()))
		require.NoError(t, err)
		require.Len(t, groups, 2)
	})

	t.Run("delimiter with transport padding", func(t *testing.T) {
		body := strings.Replace(sampleBody(), "--"+testBoundary+"--", "--"+testBoundary+"-- \t", 1)
		_, err := parse(t, true, body)
		require.NoError(t, err)
	})

	t.Run("non-strict bare LF", func(t *testing.T) {
		body := strings.ReplaceAll(sampleBody(), "\r\n", "\n")
		groups, err := parse(t, false, body)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		require.Equal(t, `{"Name":"Walter"}`, string(groups[1].Requests[0].Body))

		_, err = parse(t, true, body)
		requireKey(t, err, MissingBoundaryDelimiter)
	})

	t.Run("duplicated accept headers", func(t *testing.T) {
		groups, err := parse(t, true, batchBody(getEmployees("Accept: application/json", "accept: text/plain")))
		require.NoError(t, err)
		headers := groups[0].Requests[0].Headers
		require.Equal(t, 2, headers.Count("Accept"))
		require.Equal(t, "text/plain", headers.Expose()[1].Value)
	})

	t.Run("content id from request headers", func(t *testing.T) {
		body := batchBody(changeset(testChangeset,
			httpPart(testChangeset, nil, "POST Employees HTTP/1.1", "Content-ID: 7", "", "{}"),
		))

		groups, err := parse(t, true, body)
		require.NoError(t, err)
		require.Equal(t, "7", groups[0].Requests[0].ContentID)
	})

	t.Run("empty body with trailing blank line", func(t *testing.T) {
		body := batchBody(httpPart(testBoundary, nil, "GET Employees HTTP/1.1", "", ""))
		groups, err := parse(t, true, body)
		require.NoError(t, err)
		require.Empty(t, groups[0].Requests[0].Body)
	})

	t.Run("body keeps inner line breaks", func(t *testing.T) {
		body := batchBody(changeset(testChangeset,
			httpPart(testChangeset, nil, "POST Employees HTTP/1.1", "", "{", `  "Name": "Walter"`, "}", ""),
		))

		groups, err := parse(t, true, body)
		require.NoError(t, err)
		require.Equal(t, "{\r\n  \"Name\": \"Walter\"\r\n}\r\n", string(groups[0].Requests[0].Body))
	})
}

func TestContentLength(t *testing.T) {
	t.Run("truncates", func(t *testing.T) {
		groups, err := parse(t, true, batchBody(changeset(testChangeset, postEmployee("Content-Length: 5"))))
		require.NoError(t, err)
		require.Equal(t, `{"Nam`, string(groups[0].Requests[0].Body))
		require.Equal(t, 5, groups[0].Requests[0].Span.Len())
	})

	t.Run("clamps", func(t *testing.T) {
		groups, err := parse(t, true, batchBody(changeset(testChangeset, postEmployee("Content-Length: 1000"))))
		require.NoError(t, err)
		require.Equal(t, `{"Name":"Walter"}`, string(groups[0].Requests[0].Body))
	})

	t.Run("exact", func(t *testing.T) {
		groups, err := parse(t, true, batchBody(changeset(testChangeset, postEmployee("Content-Length: 17"))))
		require.NoError(t, err)
		require.Equal(t, `{"Name":"Walter"}`, string(groups[0].Requests[0].Body))
	})

	t.Run("negative is ignored", func(t *testing.T) {
		groups, err := parse(t, true, batchBody(changeset(testChangeset, postEmployee("Content-Length: -3"))))
		require.NoError(t, err)
		require.Equal(t, `{"Name":"Walter"}`, string(groups[0].Requests[0].Body))
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := parse(t, true, batchBody(changeset(testChangeset, postEmployee("Content-Length: twelve"))))
		requireKey(t, err, InvalidHeader)
	})
}

func TestRequestTarget(t *testing.T) {
	get := func(target string, headers ...string) string {
		request := append([]string{"GET " + target + " HTTP/1.1"}, headers...)
		return batchBody(httpPart(testBoundary, nil, append(request, "")...))
	}

	t.Run("absolute uri", func(t *testing.T) {
		groups, err := parse(t, true, get("http://localhost/odata/Employees?$top=1"))
		require.NoError(t, err)
		req := groups[0].Requests[0]
		require.Equal(t, "/Employees", req.RawODataPath)
		require.Equal(t, "$top=1", req.RawQueryPath)
		require.Equal(t, "http://localhost/odata/Employees?$top=1", req.RawRequestURI)
	})

	t.Run("service root itself", func(t *testing.T) {
		groups, err := parse(t, true, get("http://localhost/odata"))
		require.NoError(t, err)
		require.Empty(t, groups[0].Requests[0].RawODataPath)
		require.Equal(t, "http://localhost/odata", groups[0].Requests[0].RawRequestURI)
	})

	t.Run("absolute uri outside of the service root", func(t *testing.T) {
		for _, tc := range []string{"http://example.com/odata/Employees", "http://localhost/odataX/Employees", "https://localhost/odata/Employees"} {
			_, err := parse(t, true, get(tc))
			requireKey(t, err, InvalidURI)
		}
	})

	t.Run("absolute path", func(t *testing.T) {
		for _, host := range []string{"localhost", "LOCALHOST:80"} {
			groups, err := parse(t, true, get("/odata/Employees?$skip=2", "Host: "+host))
			require.NoError(t, err, host)
			req := groups[0].Requests[0]
			require.Equal(t, "/Employees", req.RawODataPath)
			require.Equal(t, "$skip=2", req.RawQueryPath)
			require.Equal(t, "http://localhost/odata/Employees?$skip=2", req.RawRequestURI)
		}
	})

	t.Run("absolute path without host", func(t *testing.T) {
		_, err := parse(t, true, get("/odata/Employees"))
		requireKey(t, err, MissingMandatoryHeader)
	})

	t.Run("absolute path with duplicated host", func(t *testing.T) {
		_, err := parse(t, true, get("/odata/Employees", "Host: localhost", "Host: localhost"))
		requireKey(t, err, MissingMandatoryHeader)
	})

	t.Run("absolute path with foreign host", func(t *testing.T) {
		for _, host := range []string{"example.com", "localhost:8080"} {
			_, err := parse(t, true, get("/odata/Employees", "Host: "+host))
			requireKey(t, err, InvalidURI)
		}
	})

	t.Run("absolute path outside of the service root", func(t *testing.T) {
		_, err := parse(t, true, get("/other/Employees", "Host: localhost"))
		requireKey(t, err, InvalidURI)
	})

	t.Run("empty path segment", func(t *testing.T) {
		_, err := parse(t, true, get("http://localhost/odata//Employees"))
		requireKey(t, err, InvalidURI)
	})
}

func TestViolations(t *testing.T) {
	for _, tc := range []struct {
		Name   string
		Strict bool
		Body   string
		Key    Key
	}{
		{
			Name: "no delimiters at all",
			Body: "just some text\r\n",
			Key:  MissingBoundaryDelimiter,
		},
		{
			Name: "empty body",
			Body: "",
			Key:  MissingBoundaryDelimiter,
		},
		{
			Name: "close delimiter only",
			Body: join("--"+testBoundary+"--", ""),
			Key:  MissingBoundaryDelimiter,
		},
		{
			Name: "missing close delimiter",
			Body: join(getEmployees()...) + "\r\n",
			Key:  MissingCloseDelimiter,
		},
		{
			Name: "stream ends mid-line",
			Body: join(httpPart(testBoundary, nil, "GET Employees HTTP/1.1", "", "dangling")...),
			Key:  InvalidContent,
		},
		{
			Name: "missing content type",
			Body: batchBody([]string{"--" + testBoundary, "Content-Transfer-Encoding: binary", "", "GET Employees HTTP/1.1", ""}),
			Key:  MissingContentType,
		},
		{
			Name: "malformed part content type",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: application", "Content-Transfer-Encoding: binary", "", "GET Employees HTTP/1.1", ""}),
			Key:  InvalidContentType,
		},
		{
			Name: "forbidden part content type",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: application/json", "Content-Transfer-Encoding: binary", "", "GET Employees HTTP/1.1", ""}),
			Key:  InvalidContentType,
		},
		{
			Name: "missing content transfer encoding",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: application/http", "", "GET Employees HTTP/1.1", ""}),
			Key:  MissingContentTransferEncoding,
		},
		{
			Name: "invalid content transfer encoding",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: application/http", "Content-Transfer-Encoding: base64", "", "GET Employees HTTP/1.1", ""}),
			Key:  InvalidContentTransferEncoding,
		},
		{
			Name: "too few request line tokens",
			Body: batchBody(httpPart(testBoundary, nil, "GET Employees", "")),
			Key:  InvalidStatusLine,
		},
		{
			Name: "too many request line tokens",
			Body: batchBody(httpPart(testBoundary, nil, "GET Employees HTTP/1.1 extra", "")),
			Key:  InvalidStatusLine,
		},
		{
			Name: "part without request",
			Body: batchBody(httpPart(testBoundary, nil)),
			Key:  InvalidStatusLine,
		},
		{
			Name: "bad http version",
			Body: batchBody(httpPart(testBoundary, nil, "GET Employees HTTP/1.x", "")),
			Key:  InvalidHTTPVersion,
		},
		{
			Name: "bad protocol",
			Body: batchBody(httpPart(testBoundary, nil, "GET Employees HTTPS/1.1", "")),
			Key:  InvalidHTTPVersion,
		},
		{
			Name:   "duplicated blank line",
			Strict: true,
			Body:   batchBody(httpPart(testBoundary, nil, "", "GET Employees HTTP/1.1", "")),
			Key:    MissingBlankLine,
		},
		{
			Name:   "displaced blank line after request headers",
			Strict: true,
			Body:   batchBody(changeset(testChangeset, httpPart(testChangeset, nil, "POST Employees HTTP/1.1", "Content-Type: application/json", `{"Name":"Walter"}`))),
			Key:    MissingBlankLine,
		},
		{
			Name:   "displaced blank line after part headers",
			Strict: true,
			Body:   batchBody([]string{"--" + testBoundary, "Content-Type: application/http", "Content-Transfer-Encoding: binary", "GET Employees HTTP/1.1", ""}),
			Key:    MissingBlankLine,
		},
		{
			Name: "mutating request outside of a changeset",
			Body: batchBody(httpPart(testBoundary, nil, "POST Employees HTTP/1.1", "", "{}")),
			Key:  InvalidQueryOperationMethod,
		},
		{
			Name: "unknown method outside of a changeset",
			Body: batchBody(httpPart(testBoundary, nil, "FETCH Employees HTTP/1.1", "")),
			Key:  InvalidQueryOperationMethod,
		},
		{
			Name: "get inside a changeset",
			Body: batchBody(changeset(testChangeset, httpPart(testChangeset, nil, "GET Employees HTTP/1.1", ""))),
			Key:  InvalidChangesetMethod,
		},
		{
			Name: "head inside a changeset",
			Body: batchBody(changeset(testChangeset, httpPart(testChangeset, nil, "HEAD Employees HTTP/1.1", ""))),
			Key:  InvalidChangesetMethod,
		},
		{
			Name: "nested changeset",
			Body: batchBody(changeset(testChangeset, []string{
				"--" + testChangeset, "Content-Type: multipart/mixed; boundary=changeset_inner", "",
				"--changeset_inner", "Content-Type: application/http", "Content-Transfer-Encoding: binary", "",
				"POST Employees HTTP/1.1", "", "{}", "--changeset_inner--",
			})),
			Key: InvalidContentType,
		},
		{
			Name: "changeset without boundary",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: multipart/mixed", ""}),
			Key:  InvalidContentType,
		},
		{
			Name: "changeset reusing the batch boundary",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + testBoundary, ""}),
			Key:  InvalidBoundary,
		},
		{
			Name: "changeset with invalid content transfer encoding",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + testChangeset, "Content-Transfer-Encoding: 7bit", ""}),
			Key:  InvalidContentTransferEncoding,
		},
		{
			Name: "empty changeset",
			Body: batchBody(changeset(testChangeset)),
			Key:  MissingBoundaryDelimiter,
		},
		{
			Name: "changeset without parts",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + testChangeset, ""}),
			Key:  MissingBoundaryDelimiter,
		},
		{
			Name: "unclosed changeset",
			Body: batchBody([]string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + testChangeset, ""}, postEmployee()),
			Key:  MissingCloseDelimiter,
		},
		{
			Name: "unclosed changeset at the end of stream",
			Body: join(append([]string{"--" + testBoundary, "Content-Type: multipart/mixed; boundary=" + testChangeset, ""}, postEmployee()...)...) + "\r\n",
			Key:  MissingCloseDelimiter,
		},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			groups, err := parse(t, tc.Strict, tc.Body)
			require.Nil(t, groups)
			requireKey(t, err, tc.Key)
		})
	}
}

func TestForbiddenHeaders(t *testing.T) {
	for _, header := range []string{
		"Authorization: Basic dXNlcjpwYXNz", "Expect: 100-continue", "From: user@example.com",
		"Range: bytes=0-10", "Max-Forwards: 3", "TE: trailers", "authorization: Bearer token",
	} {
		t.Run(header, func(t *testing.T) {
			_, err := parse(t, true, batchBody(changeset(testChangeset, postEmployee(header))))
			requireKey(t, err, ForbiddenHeader)
			require.ErrorIs(t, err, ErrForbiddenHeader)
		})
	}

	t.Run("retrieve request", func(t *testing.T) {
		_, err := parse(t, true, batchBody(getEmployees("Range: bytes=0-10")))
		requireKey(t, err, ForbiddenHeader)
	})
}

func TestBatchContentType(t *testing.T) {
	for _, tc := range []struct {
		ContentType string
		Key         Key
	}{
		{"multipart/mixed", InvalidContentType},
		{"application/json", InvalidContentType},
		{"multipart/form-data; boundary=" + testBoundary, InvalidContentType},
		{"", InvalidContentType},
		{"multipart/mixed; boundary", InvalidContentType},
		{"multipart/mixed; boundary=batch:1", InvalidBoundary},
		{`multipart/mixed; boundary="batch_1 "`, InvalidBoundary},
		{"multipart/mixed; boundary=" + strings.Repeat("a", 71), InvalidBoundary},
	} {
		_, err := Parse(tc.ContentType, serviceRoot(t), "", true, strings.NewReader(sampleBody()))
		requireKey(t, err, tc.Key)
	}
}

func TestParser(t *testing.T) {
	t.Run("spans", func(t *testing.T) {
		data := []byte(sampleBody())
		groups, err := NewParser(nil).ParseBytes(Options{
			ContentType: ContentType(testBoundary),
			ServiceRoot: serviceRoot(t),
			Strict:      true,
		}, data)
		require.NoError(t, err)

		for _, group := range groups {
			for _, req := range group.Requests {
				require.Equal(t, data[req.Span.Start:req.Span.End], req.Body)
			}
		}
	})

	t.Run("reuse", func(t *testing.T) {
		parser := NewParser(config.Default())
		opts := Options{ContentType: ContentType(testBoundary), ServiceRoot: serviceRoot(t), Strict: true}

		first, err := parser.Parse(opts, strings.NewReader(sampleBody()))
		require.NoError(t, err)

		_, err = parser.Parse(opts, strings.NewReader("garbage"))
		requireKey(t, err, MissingBoundaryDelimiter)

		second, err := parser.Parse(opts, strings.NewReader(sampleBody()))
		require.NoError(t, err)
		require.Equal(t, len(first), len(second))
		require.Equal(t, first[1].Requests[0].Body, second[1].Requests[0].Body)
	})

	t.Run("read failure", func(t *testing.T) {
		readErr := errors.New("connection reset by peer")
		_, err := Parse(ContentType(testBoundary), serviceRoot(t), "", true, iotest.ErrReader(readErr))
		require.ErrorIs(t, err, readErr)

		var e *Error
		require.False(t, errors.As(err, &e))
	})

	t.Run("no service root", func(t *testing.T) {
		_, err := NewParser(nil).Parse(Options{ContentType: ContentType(testBoundary)}, strings.NewReader(sampleBody()))
		require.Error(t, err)
	})

	t.Run("logging", func(t *testing.T) {
		var buff bytes.Buffer
		parser := NewParser(nil).WithLogger(zerolog.New(&buff).Level(zerolog.DebugLevel))
		_, err := parser.Parse(Options{ContentType: ContentType(testBoundary), ServiceRoot: serviceRoot(t)}, strings.NewReader(sampleBody()))
		require.NoError(t, err)
		require.Contains(t, buff.String(), "batch decoded")
		require.Contains(t, buff.String(), "changeset decoded")
	})
}

func TestLimits(t *testing.T) {
	opts := func(t *testing.T) Options {
		return Options{ContentType: ContentType(testBoundary), ServiceRoot: serviceRoot(t), Strict: true}
	}

	t.Run("headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Number.Maximal = 1
		_, err := NewParser(cfg).Parse(opts(t), strings.NewReader(batchBody(getEmployees("Accept: a", "Accept: b"))))
		requireKey(t, err, InvalidHeader)
	})

	t.Run("parts", func(t *testing.T) {
		cfg := config.Default()
		cfg.Parts.Batch.Maximal = 1
		_, err := NewParser(cfg).Parse(opts(t), strings.NewReader(sampleBody()))
		requireKey(t, err, InvalidContent)
	})

	t.Run("changeset requests", func(t *testing.T) {
		cfg := config.Default()
		cfg.Parts.Changeset.Maximal = 2
		_, err := NewParser(cfg).Parse(opts(t), strings.NewReader(sampleBody()))
		requireKey(t, err, InvalidContent)
	})

	t.Run("line length", func(t *testing.T) {
		cfg := config.Default()
		cfg.Line.MaxLength = 16
		_, err := NewParser(cfg).Parse(opts(t), strings.NewReader(sampleBody()))
		requireKey(t, err, InvalidContent)
	})

	t.Run("body size", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 64
		_, err := NewParser(cfg).Parse(opts(t), strings.NewReader(sampleBody()))
		requireKey(t, err, InvalidContent)
	})
}
