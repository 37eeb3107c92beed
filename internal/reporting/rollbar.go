// Package reporting forwards error logs to Rollbar.
package reporting

import (
	"context"
	"log/slog"
	"slices"

	"github.com/rollbar/rollbar-go"
)

// ReportFunc receives one error record
type ReportFunc func(level, msg string, extras map[string]interface{})

// Options configures the Rollbar client
type Options struct {
	Token       string
	Environment string
	ServerHost  string
	CodeVersion string
}

// Configure sets up the global Rollbar client and returns a flush func to
// call on shutdown
func Configure(opts Options) func() {
	rollbar.SetToken(opts.Token)
	rollbar.SetEnvironment(opts.Environment)
	rollbar.SetServerHost(opts.ServerHost)
	rollbar.SetCodeVersion(opts.CodeVersion)
	rollbar.SetEnabled(opts.Token != "")
	return rollbar.Wait
}

// Rollbar reports through the global client
func Rollbar(level, msg string, extras map[string]interface{}) {
	rollbar.Log(level, msg, extras)
}

// Handler passes every record to next and reports error records
type Handler struct {
	next   slog.Handler
	report ReportFunc
	attrs  []slog.Attr
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler wraps next
func NewHandler(next slog.Handler, report ReportFunc) *Handler {
	return &Handler{next: next, report: report}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError {
		extras := make(map[string]interface{}, len(h.attrs)+record.NumAttrs())
		for _, attr := range h.attrs {
			extras[attr.Key] = attr.Value.Any()
		}
		record.Attrs(func(attr slog.Attr) bool {
			extras[attr.Key] = attr.Value.Any()
			return true
		})
		h.report(rollbar.ERR, record.Message, extras)
	}
	return h.next.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		next:   h.next.WithAttrs(attrs),
		report: h.report,
		attrs:  append(slices.Clone(h.attrs), attrs...),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name), report: h.report, attrs: h.attrs}
}
