package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a YAML identity script.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Registry is a catalog of loaded scripts keyed by name.
type Registry struct {
	scripts map[string]*Script
}

// NewRegistry starts a registry seeded with the built-in scripts.
func NewRegistry() *Registry {
	r := &Registry{scripts: make(map[string]*Script)}
	r.scripts["doctor"] = Doctor()
	return r
}

// Add registers a validated script, replacing any previous script with the
// same name.
func (r *Registry) Add(s *Script) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.scripts[strings.ToLower(s.Name)] = s
	return nil
}

// LoadDir loads every .yaml/.yml script in dir into the registry. A missing
// dir is not an error; an invalid script is.
func (r *Registry) LoadDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read script dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		s, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		if err := r.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the script registered under name.
func (r *Registry) Get(name string) (*Script, bool) {
	s, ok := r.scripts[strings.ToLower(name)]
	return s, ok
}

// Names lists registered script names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for n := range r.scripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
