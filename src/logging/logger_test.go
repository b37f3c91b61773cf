package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	saved := GetLogLevel()
	t.Cleanup(func() {
		SetOutput(nopWriter{})
		atomicLevel.SetLevel(zapLevels[saved])
	})
	return &buf
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "line 7: accuracy=100.0% of 24 trials (phase=baseline)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "accuracy=100.0% of 24") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("warn")

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	for _, hidden := range []string{"debug 1", "info 2"} {
		if strings.Contains(out, hidden) {
			t.Fatalf("expected %q to be filtered at warn level: %s", hidden, out)
		}
	}
	for _, shown := range []string{"WARN", "warn 3", "ERROR", "error 4"} {
		if !strings.Contains(out, shown) {
			t.Fatalf("expected %q in output: %s", shown, out)
		}
	}
}

func TestSetLogLevel_UnknownIgnored(t *testing.T) {
	captureLogs(t)
	SetLogLevel("debug")
	SetLogLevel("verbose")
	if GetLogLevel() != LevelDebug {
		t.Fatalf("unknown level changed state: got %v", GetLogLevel())
	}
	SetLogLevel(" Warning ")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("expected warn after 'Warning', got %v", GetLogLevel())
	}
}

func TestTimeTrack_DebugOnly(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")
	TimeTrack(time.Now(), "render")
	if buf.Len() != 0 {
		t.Fatalf("TimeTrack should be silent at info level: %s", buf.String())
	}
	SetLogLevel("debug")
	TimeTrack(time.Now().Add(-time.Millisecond), "render")
	if !strings.Contains(buf.String(), "render took") {
		t.Fatalf("expected timing line, got %s", buf.String())
	}
}
