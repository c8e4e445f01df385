package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/indigo-web/odata/batch"
	"github.com/indigo-web/odata/internal/rawreq"
	"github.com/indigo-web/odata/kv"
	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type requestView struct {
	Method        string     `json:"method"`
	Target        string     `json:"target"`
	RequestURI    string     `json:"requestUri"`
	ODataPath     string     `json:"odataPath,omitempty"`
	QueryPath     string     `json:"queryPath,omitempty"`
	ContentID     string     `json:"contentId,omitempty"`
	Headers       []kv.Pair  `json:"headers"`
	Body          string     `json:"body,omitempty"`
	Span          batch.Span `json:"span"`
	ResolutionURI string     `json:"serviceResolutionUri,omitempty"`
}

type groupView struct {
	Changeset bool          `json:"changeset"`
	Requests  []requestView `json:"requests"`
}

type fileView struct {
	File   string      `json:"file"`
	Groups []groupView `json:"groups"`
}

type dumper struct {
	cfg  Config
	root *url.URL
	log  zerolog.Logger
}

// run dumps every file and reports an error if at least one of them failed. Failures
// don't stop the rest of files from being dumped. Files are decoded concurrently, however
// the output preserves their order.
func run(cfg Config, files []string, stdin io.Reader, stdout io.Writer, logger zerolog.Logger) error {
	root, err := url.Parse(cfg.ServiceRoot)
	if err != nil {
		return fmt.Errorf("bad service root: %w", err)
	}

	if !root.IsAbs() {
		return fmt.Errorf("service root %q must be an absolute URI", cfg.ServiceRoot)
	}

	d := dumper{
		cfg:  cfg,
		root: root,
		log:  logger,
	}

	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}

		encoded, err := d.dump(batch.NewParser(nil).WithLogger(logger), "-", data)
		if err != nil {
			return err
		}

		_, err = stdout.Write(encoded)
		return err
	}

	var (
		g       errgroup.Group
		failed  atomic.Int32
		outputs = make([][]byte, len(files))
	)

	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err == nil {
				outputs[i], err = d.dump(batch.NewParser(nil).WithLogger(logger), file, data)
			}

			if err != nil {
				logger.Error().Err(err).Str("file", file).Msg("failed to dump batch")
				failed.Add(1)
			}

			return nil
		})
	}

	_ = g.Wait()

	for _, output := range outputs {
		if _, err = stdout.Write(output); err != nil {
			return err
		}
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d out of %d files failed", n, len(files))
	}

	return nil
}

// dump decodes a single captured request and returns its JSON representation.
func (d dumper) dump(parser *batch.Parser, name string, data []byte) ([]byte, error) {
	contentType, body := d.cfg.ContentType, data
	if len(contentType) == 0 {
		request, err := rawreq.Parse(data)
		if err != nil {
			return nil, err
		}

		if !request.Headers.Has("Content-Type") {
			return nil, errors.New("captured request has no Content-Type")
		}

		contentType, body = request.Headers.Value("Content-Type"), request.Body
	}

	groups, err := parser.Parse(batch.Options{
		ContentType:          contentType,
		ServiceRoot:          d.root,
		ServiceResolutionURI: d.cfg.ResolutionURI,
		Strict:               d.cfg.Strict,
	}, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	d.log.Debug().Str("file", name).Int("groups", len(groups)).Msg("batch dumped")

	encoded, err := json.MarshalIndent(view(name, groups), "", "  ")
	if err != nil {
		return nil, err
	}

	return append(encoded, '\n'), nil
}

func view(name string, groups []batch.Group) fileView {
	v := fileView{
		File:   name,
		Groups: make([]groupView, 0, len(groups)),
	}

	for _, group := range groups {
		g := groupView{Changeset: group.Changeset}

		for _, req := range group.Requests {
			g.Requests = append(g.Requests, requestView{
				Method:        req.Method.String(),
				Target:        req.Target,
				RequestURI:    req.RawRequestURI,
				ODataPath:     req.RawODataPath,
				QueryPath:     req.RawQueryPath,
				ContentID:     req.ContentID,
				Headers:       req.Headers.Expose(),
				Body:          string(req.Body),
				Span:          req.Span,
				ResolutionURI: req.RawServiceResolutionURI,
			})
		}

		v.Groups = append(v.Groups, g)
	}

	return v
}
