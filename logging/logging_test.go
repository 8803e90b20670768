package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Warn("渐变降级", "key", "__grad__red")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug 日志不应输出: %s", out)
	}
	if !strings.Contains(out, "key=__grad__red") {
		t.Fatalf("缺少结构化字段: %s", out)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) must not return nil")
	}
	l := Default()
	if OrNop(l) != l {
		t.Fatalf("OrNop should keep a non-nil logger")
	}
}
