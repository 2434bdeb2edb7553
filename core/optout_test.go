package core

import (
	"path/filepath"
	"testing"
)

func TestOptOutSetAddAndContains(t *testing.T) {
	o, err := NewOptOutSet("")
	if err != nil {
		t.Fatalf("NewOptOutSet: %v", err)
	}

	if o.Contains(SubnetOf("203.0.113.7")) {
		t.Fatal("unexpected opt-out hit before Add")
	}
	o.Add("203.0.113.7")
	if !o.Contains(SubnetOf("203.0.113.7")) {
		t.Fatal("expected subnet to be opted out after Add")
	}
}

func TestOptOutSetPersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opt-out.lst")

	o, err := NewOptOutSet(path)
	if err != nil {
		t.Fatalf("NewOptOutSet: %v", err)
	}
	o.Add("198.51.100.7")

	reloaded, err := NewOptOutSet(path)
	if err != nil {
		t.Fatalf("NewOptOutSet (reload): %v", err)
	}
	if !reloaded.Contains(SubnetOf("198.51.100.7")) {
		t.Fatal("expected opt-out to survive a reload from disk")
	}
}
