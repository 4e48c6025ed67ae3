package script

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	s, err := LoadFile(filepath.Join("testdata", "pirate.yaml"))
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if s.Name != "pirate" {
		t.Fatalf("Name = %q, want %q", s.Name, "pirate")
	}
	if len(s.Keywords) != 2 {
		t.Fatalf("keyword count = %d, want 2", len(s.Keywords))
	}
	if kw := s.Keyword("ship"); kw == nil || kw.Rank != 2 {
		t.Fatalf("keyword ship = %+v, want rank 2", kw)
	}
}

func TestLoadFileNameFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grump.yaml")
	body := "greetings: [\"What\"]\nfallbacks: [\"Whatever\"]\nkeywords:\n  - word: no\n    rules:\n      - responses: [\"No yourself\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error = %v", err)
	}
	if s.Name != "grump" {
		t.Fatalf("Name = %q, want %q", s.Name, "grump")
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("invalid script accepted")
	}
}

func TestRegistrySeedsBuiltins(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("doctor"); !ok {
		t.Fatalf("built-in doctor script missing")
	}
	names := r.Names()
	if len(names) != 1 || names[0] != "doctor" {
		t.Fatalf("Names() = %v, want [doctor]", names)
	}
}

func TestRegistryLoadDir(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir("testdata"); err != nil {
		t.Fatalf("LoadDir error = %v", err)
	}
	if _, ok := r.Get("pirate"); !ok {
		t.Fatalf("pirate script not loaded")
	}
	// Non-yaml files are skipped.
	if _, ok := r.Get("broken"); ok {
		t.Fatalf("non-yaml file was loaded")
	}
}

func TestRegistryLoadDirMissing(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("LoadDir on missing dir error = %v, want nil", err)
	}
}

func TestBuiltinDoctorValidates(t *testing.T) {
	if err := Doctor().Validate(); err != nil {
		t.Fatalf("built-in doctor invalid: %v", err)
	}
}
