package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JaimeStill/mcp-endpoints/pkg/logging"
)

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "debug")

	cfg := logging.Config{}
	if err := cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT_UNSET"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Level != logging.LevelDebug || cfg.Format != logging.FormatText {
		t.Errorf("config = %+v", cfg)
	}

	bad := logging.Config{Level: "verbose"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() accepted invalid level")
	}
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "kept" || entry["key"] != "value" || entry["service"] != "mcp-endpoints" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLevel_Validate(t *testing.T) {
	for _, l := range []logging.Level{logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError} {
		if err := l.Validate(); err != nil {
			t.Errorf("Validate(%s) error = %v", l, err)
		}
	}
	if err := logging.Format("yaml").Validate(); err == nil {
		t.Error("Format(yaml).Validate() = nil")
	}
}
