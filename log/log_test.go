package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSinkWritesOneJSONObjectPerLine(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSink(dir, 1234)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	defer sink.Close()

	sink.Event("QUEUED", map[string]interface{}{"domain": "example.com"})
	sink.Event("OPTOUT", map[string]interface{}{"ip": "203.0.113.7"})

	raw, err := os.ReadFile(filepath.Join(dir, "app-1234.jsonl"))
	if err != nil {
		t.Fatalf("reading sink file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), raw)
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first["event"] != "QUEUED" || first["domain"] != "example.com" {
		t.Fatalf("unexpected first record: %v", first)
	}
}
