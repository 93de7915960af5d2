package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	InitLogger(level, format)
	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("index loaded from cache") },
			contains: []string{"index loaded from cache", "level=INFO"},
		},
		{
			name:     "debug suppressed at info level",
			level:    "info",
			logFn:    func() { Debug("chunk written") },
			excludes: []string{"chunk written"},
		},
		{
			name:     "debug shown at debug level",
			level:    "debug",
			logFn:    func() { Debug("chunk written", Fields{"bytes": 1024}) },
			contains: []string{"chunk written", "level=DEBUG", "bytes=1024"},
		},
		{
			name:     "warn with fields",
			level:    "warn",
			logFn:    func() { Warn("removing all cache files", Fields{"dir": "/tmp/cache"}) },
			contains: []string{"removing all cache files", "level=WARN", "dir=/tmp/cache"},
		},
		{
			name:     "error",
			level:    "error",
			logFn:    func() { Error("download failed") },
			contains: []string{"download failed", "level=ERROR"},
		},
		{
			name:     "success",
			level:    "info",
			logFn:    func() { Success("download finished") },
			contains: []string{"download finished", "status=success"},
		},
		{
			name:     "formatted debug with fields",
			level:    "debug",
			logFn:    func() { DebugfWithFields(Fields{"task": "abc"}, "stage %s done", "fetch") },
			contains: []string{"stage fetch done", "task=abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, FormatText, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, out, notWant)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	out := captureOutput(t, "info", FormatJSON, func() {
		Info("removed expired cache files", Fields{"count": 2, "dir": "cache", "forced": false})
	})

	assert.Contains(t, out, `"msg":"removed expired cache files"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"count":2`)
	assert.Contains(t, out, `"dir":"cache"`)
	assert.Contains(t, out, `"forced":false`)
}

func TestSetOutputFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	InitLogger("debug", FormatText)
	Info("text line")
	assert.Contains(t, buf.String(), "msg=\"text line\"")

	buf.Reset()
	SetOutputFormat(FormatJSON)
	Debug("json line")
	assert.Contains(t, buf.String(), `"msg":"json line"`)
	assert.Contains(t, buf.String(), `"level":"DEBUG"`, "level must survive a format switch")
}

func TestGetLogger_InitializesIfNil(t *testing.T) {
	mu.Lock()
	logger = nil
	mu.Unlock()

	assert.NotPanics(t, func() {
		assert.NotNil(t, GetLogger())
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestMergeFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []Fields
		expect map[string]interface{}
	}{
		{
			name:   "single field",
			fields: []Fields{{"mirror": "wikimedia"}},
			expect: map[string]interface{}{"mirror": "wikimedia"},
		},
		{
			name:   "multiple maps",
			fields: []Fields{{"mirror": "wikimedia"}, {"size": 123, "hit": true}},
			expect: map[string]interface{}{"mirror": "wikimedia", "size": 123, "hit": true},
		},
		{
			name:   "later map wins",
			fields: []Fields{{"mirror": "wikimedia"}, {"mirror": "bytemark"}},
			expect: map[string]interface{}{"mirror": "bytemark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := mergeFields(tt.fields...)
			assert.Len(t, attrs, len(tt.expect)*2)
			result := make(map[string]interface{})
			for i := 0; i < len(attrs); i += 2 {
				result[attrs[i].(string)] = attrs[i+1]
			}
			assert.Equal(t, tt.expect, result)
		})
	}
}
