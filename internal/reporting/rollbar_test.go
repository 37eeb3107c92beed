package reporting

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	level  string
	msg    string
	extras map[string]interface{}
}

func newTestLogger(buf *bytes.Buffer) (*slog.Logger, *[]captured) {
	var reports []captured
	report := func(level, msg string, extras map[string]interface{}) {
		reports = append(reports, captured{level: level, msg: msg, extras: extras})
	}
	next := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewHandler(next, report)), &reports
}

func TestHandlerReportsErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, reports := newTestLogger(&buf)

	logger.Info("request", "status", 200)
	logger.Warn("slow")
	logger.Error("failed to send email", "error", errors.New("boom"), "parent_id", "parent_00000001")

	require.Len(t, *reports, 1)
	got := (*reports)[0]
	assert.Equal(t, "error", got.level)
	assert.Equal(t, "failed to send email", got.msg)
	assert.Equal(t, "parent_00000001", got.extras["parent_id"])
	assert.EqualError(t, got.extras["error"].(error), "boom")

	assert.Contains(t, buf.String(), "msg=request")
	assert.Contains(t, buf.String(), "msg=slow")
	assert.Contains(t, buf.String(), `msg="failed to send email"`)
}

func TestHandlerCarriesBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, reports := newTestLogger(&buf)

	logger.With("component", "handoff").Error("insert failed")

	require.Len(t, *reports, 1)
	assert.Equal(t, "handoff", (*reports)[0].extras["component"])
	assert.Contains(t, buf.String(), "component=handoff")
}
