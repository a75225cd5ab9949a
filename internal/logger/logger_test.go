package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriter_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "indotrip", "info")

	log.Info().Str("trip_id", "AB12CD").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["service"] != "indotrip" {
		t.Errorf("service = %v, want indotrip", entry["service"])
	}
	if entry["trip_id"] != "AB12CD" {
		t.Errorf("trip_id = %v, want AB12CD", entry["trip_id"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "indotrip", "warn")

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}

	log.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Error("warn line not written")
	}
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "indotrip", "loud")

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")
	if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
		t.Errorf("expected exactly one line, got %q", buf.String())
	}
}
