// Package batchmdw provides a net/http middleware decoding OData batch requests. Decoded
// groups are stored in the request context, malformed batches are rejected before they
// reach the wrapped handler.
package batchmdw

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/indigo-web/odata/batch"
	"github.com/indigo-web/odata/config"
	"github.com/jackc/puddle/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/negroni"
)

// ErrorHeader carries the key of the violation when a batch is rejected.
const ErrorHeader = "OData-Error"

type groupsKey struct{}

type Options struct {
	ServiceRoot          *url.URL
	ServiceResolutionURI string
	Strict               bool
	// Config limits the parser. The default one is used if nil.
	Config *config.Config
	// Logger is used for access and debug logs. Nothing is logged if nil.
	Logger *zerolog.Logger
	// Metrics are recorded if not nil.
	Metrics *Metrics
	// MaxConcurrent limits how many batches are decoded at the same time. Requests exceeding
	// the limit wait for a parser to be released. Defaults to GOMAXPROCS.
	MaxConcurrent int32
}

// New wraps the handler. Only POST requests are accepted, as it's the only method a batch
// may be submitted with.
func New(next http.Handler, opts Options) (http.HandlerFunc, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = int32(runtime.GOMAXPROCS(0))
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	parsers, err := puddle.NewPool(&puddle.Config[*batch.Parser]{
		Constructor: func(context.Context) (*batch.Parser, error) {
			return batch.NewParser(opts.Config).WithLogger(logger), nil
		},
		Destructor: func(*batch.Parser) {},
		MaxSize:    opts.MaxConcurrent,
	})
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := negroni.NewResponseWriter(w)

		defer func() {
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.Status()).
				Dur("latency", time.Since(start)).
				Msg("batch request served")
		}()

		if r.Method != http.MethodPost {
			rw.Header().Set("Allow", http.MethodPost)
			http.Error(rw, "batch requests must be submitted with POST", http.StatusMethodNotAllowed)
			opts.Metrics.observe(resultMethodNotAllowed, 0, time.Since(start).Seconds())
			return
		}

		res, err := parsers.Acquire(r.Context())
		if err != nil {
			logger.Warn().Err(err).Msg("no parser acquired")
			http.Error(rw, "request canceled", http.StatusServiceUnavailable)
			opts.Metrics.observe(resultCanceled, 0, time.Since(start).Seconds())
			return
		}

		groups, err := res.Value().Parse(batch.Options{
			ContentType:          r.Header.Get("Content-Type"),
			ServiceRoot:          opts.ServiceRoot,
			ServiceResolutionURI: opts.ServiceResolutionURI,
			Strict:               opts.Strict,
		}, http.MaxBytesReader(rw, r.Body, opts.Config.Body.MaxSize))
		res.Release()

		if err != nil {
			opts.Metrics.observe(reject(rw, err, logger), 0, time.Since(start).Seconds())
			return
		}

		opts.Metrics.observe(resultOK, len(groups), time.Since(start).Seconds())
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), groupsKey{}, groups)))
	}, nil
}

// Groups returns the decoded batch stored in the context by the middleware.
func Groups(ctx context.Context) ([]batch.Group, bool) {
	groups, ok := ctx.Value(groupsKey{}).([]batch.Group)
	return groups, ok
}

// reject writes the error response and returns the result label.
func reject(w http.ResponseWriter, err error, logger zerolog.Logger) (result string) {
	var (
		batchErr *batch.Error
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLarge):
		http.Error(w, "batch body is too large", http.StatusRequestEntityTooLarge)
		result = resultTooLarge
	case errors.As(err, &batchErr):
		w.Header().Set(ErrorHeader, string(batchErr.Key))
		http.Error(w, batchErr.Message, statusOf(batchErr.Key))
		result = string(batchErr.Key)
	default:
		logger.Error().Err(err).Msg("failed to read batch body")
		http.Error(w, "failed to read the body", http.StatusBadRequest)
		return resultReadError
	}

	logger.Debug().Err(err).Msg("batch rejected")
	return result
}

func statusOf(key batch.Key) int {
	switch key {
	case batch.InvalidContentType, batch.InvalidBoundary:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}
