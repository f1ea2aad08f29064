package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lokarni", "prefs.yaml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := s.GetString(KeyGridLayout, "medium"); got != "medium" {
		t.Errorf("empty store GetString() = %q, want default", got)
	}

	if err := s.Set(KeyGridLayout, "large"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(KeyShowNSFW, true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A fresh open sees the persisted values.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() after write error = %v", err)
	}
	if got := reopened.GetString(KeyGridLayout, "medium"); got != "large" {
		t.Errorf("GetString() = %q, want large", got)
	}
	if !reopened.GetBool(KeyShowNSFW, false) {
		t.Error("GetBool() = false, want persisted true")
	}
}

func TestStore_TypeMismatchFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("show-nsfw: \"yes\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.GetBool(KeyShowNSFW, false) {
		t.Error("GetBool() accepted a string value, want default")
	}
}

func TestStore_CorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() accepted corrupt YAML")
	}
}
