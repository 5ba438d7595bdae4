package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Computed 4 layers (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// EnableVerbose switches the logger to debug level and routes every
// observability event to it.
func (c *CLI) EnableVerbose() {
	c.SetLogLevel(LogDebug)
	hooks := &logHooks{logger: c.Logger}
	observability.SetLayoutHooks(hooks)
	observability.SetRenderHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLayoutStart(_ context.Context, nodes, edges int) {
	h.logger.Debug("layout started", "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, layers, cycles int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("layout finished", "layers", layers, "cycles", cycles, "duration", d)
}

func (h *logHooks) OnStall(_ context.Context, unplaced []string) {
	h.logger.Debug("layering stalled", "unplaced", unplaced)
}

func (h *logHooks) OnRenderStart(_ context.Context, backend string, formats []string) {
	h.logger.Debug("render started", "backend", backend, "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, backend string, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "backend", backend, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render finished", "backend", backend, "formats", formats, "duration", d)
}

func (h *logHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "id", id, "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnShared(_ context.Context, id, path string) {
	h.logger.Debug("shared computation", "id", id, "path", path)
}
