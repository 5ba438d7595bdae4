package cli

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplayer/pkg/buildinfo"
	"github.com/matzehuels/deplayer/pkg/errors"
	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/httputil"
	"github.com/matzehuels/deplayer/pkg/observability"
	"github.com/matzehuels/deplayer/pkg/pipeline"
)

const (
	// maxBodyBytes bounds the size of a descriptor upload.
	maxBodyBytes = 10 << 20

	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// contentTypes maps the formats served by /v1/render to their media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

Endpoints:
  GET  /healthz                       liveness probe
  POST /v1/layout                     descriptor JSON in, layout JSON out
  POST /v1/render?format=svg|dot|...  descriptor JSON in, drawing out

Layout flags and the config file set the server defaults. Requests may
override them with the query parameters rule, x_margin, y_margin,
hide_stdlib, strict and backend. Identical concurrent requests share one
computation. Errors are returned as {"code": ..., "message": ...}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := c.options(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Serve.Addr != "" {
				addr = cfg.Serve.Addr
			}
			s := newServer(c.newRunner(), opts, c.Logger, timeout)
			return s.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultRequestTimeout, "per-request computation timeout (0 disables)")

	return cmd
}

// server handles the HTTP API. Handlers are safe for concurrent use.
type server struct {
	runner  *pipeline.Runner
	base    pipeline.Options
	logger  *log.Logger
	timeout time.Duration
	group   httputil.Group
}

func newServer(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger, timeout time.Duration) *server {
	return &server{runner: runner, base: base, logger: logger, timeout: timeout}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(httputil.Instrument)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "version", buildinfo.Version)

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.compute(w, r, contentTypes[pipeline.FormatJSON], func(ctx context.Context, d graph.Descriptor, opts pipeline.Options) ([]byte, error) {
		res, err := s.runner.Layout(ctx, d, opts)
		if err != nil {
			return nil, err
		}
		return graph.MarshalLayout(res.Layout)
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = pipeline.FormatSVG
	}
	contentType, ok := contentTypes[format]
	if !ok {
		httputil.WriteError(w, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format %q (want one of %s)", format, strings.Join(pipeline.ValidFormats, ", ")))
		return
	}

	s.compute(w, r, contentType, func(ctx context.Context, d graph.Descriptor, opts pipeline.Options) ([]byte, error) {
		opts.Formats = []string{format}
		res, err := s.runner.Execute(ctx, d, opts)
		if err != nil {
			return nil, err
		}
		return res.Artifacts[format], nil
	})
}

type computeFunc func(ctx context.Context, d graph.Descriptor, opts pipeline.Options) ([]byte, error)

// compute reads the descriptor body, resolves per-request options and runs
// fn, sharing the result with identical concurrent requests.
func (s *server) compute(w http.ResponseWriter, r *http.Request, contentType string, fn computeFunc) {
	id := httputil.RequestIDFrom(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		} else {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
		}
		httputil.WriteError(w, err)
		return
	}

	query := r.URL.Query()
	opts, err := s.requestOptions(query)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	key := httputil.Key([]byte(r.URL.Path), []byte(query.Encode()), body)
	data, err, shared := s.group.Do(key, func() ([]byte, error) {
		ctx := context.WithoutCancel(r.Context())
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		d, err := graph.UnmarshalDescriptor(body)
		if err != nil {
			return nil, err
		}
		return fn(ctx, d, opts)
	})
	if shared {
		observability.HTTP().OnShared(r.Context(), id, r.URL.Path)
	}
	if err != nil {
		s.logger.Warn("request failed", "id", id, "path", r.URL.Path, "err", err)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// requestOptions applies query parameter overrides to the server defaults.
func (s *server) requestOptions(q url.Values) (pipeline.Options, error) {
	opts := s.base
	opts.Formats = slices.Clone(opts.Formats)

	if v := q.Get("rule"); v != "" {
		opts.Rule = v
	}
	if v := q.Get("backend"); v != "" {
		opts.Backend = v
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x_margin", &opts.XMargin}, {"y_margin", &opts.YMargin}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", f.name, v)
		}
		*f.dst = n
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{{"hide_stdlib", &opts.HideStdlib}, {"strict", &opts.Strict}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", f.name, v)
		}
		*f.dst = b
	}

	if err := opts.ValidateForLayout(); err != nil {
		return pipeline.Options{}, err
	}
	if opts.Backend != "" {
		if err := pipeline.ValidateBackend(opts.Backend); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}
