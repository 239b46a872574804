package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/observability"
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

// done logs msg along with the elapsed time, e.g. "Replayed 182 frames (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards engine, render and cache events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetDeckHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnLayout(visible, total int) {}

func (h logHooks) OnGestureClaimed(pos float64) {
	h.logger.Debug("gesture claimed", "pos", pos)
}

func (h logHooks) OnFling(velocity float64, accepted bool) {
	h.logger.Debug("fling", "velocity", velocity, "accepted", accepted)
}

func (h logHooks) OnFlingEnd(position int) {
	h.logger.Debug("fling end", "position", position)
}

func (h logHooks) OnOverscrollReset(progress float64, d time.Duration) {
	h.logger.Debug("overscroll reset", "progress", progress, "duration", d)
}

func (h logHooks) OnItemRemoved(handle string, remaining int) {
	h.logger.Debug("item removed", "handle", handle, "remaining", remaining)
}

func (h logHooks) OnRenderStart(_ context.Context, format string, frames int) {
	h.logger.Debug("render start", "format", format, "frames", frames)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("render done", "format", format, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// httpLogHooks reports slow or failing requests from `cardstack serve`.
type httpLogHooks struct {
	logger *log.Logger
}

// slowRequest is the latency above which a request is logged at info level.
const slowRequest = 250 * time.Millisecond

func (h httpLogHooks) OnRequest(context.Context, string, string) {}

func (h httpLogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if d >= slowRequest {
		h.logger.Info("slow request", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
	}
}
