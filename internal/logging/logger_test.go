package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")

	Info("bomb exploded", Fields{"count": 2})

	line := strings.TrimSpace(buf.String())
	idx := strings.Index(line, "{")
	if idx < 0 {
		t.Fatalf("expected JSON payload, got %q", line)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(line[idx:]), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["msg"] != "bomb exploded" || decoded["level"] != "info" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
	if decoded["count"].(float64) != 2 {
		t.Fatalf("expected count=2, got %v", decoded["count"])
	}
}

func TestLevelGateDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	defer SetLevel("info")

	Debug("noise", nil)
	Info("noise", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	Error("boom", errors.New("bad"), nil)
	if !strings.Contains(buf.String(), `"error":"bad"`) {
		t.Fatalf("expected error text in output, got %q", buf.String())
	}
}
