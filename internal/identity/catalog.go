package identity

import (
	"fmt"
	"sort"

	"github.com/parleybot/parley/internal/engine"
	"github.com/parleybot/parley/internal/script"
)

// Catalog compiles every registered script once and hands out fresh identity
// instances on demand. Engines are shared; each instance gets private state.
type Catalog struct {
	engines  map[string]*engine.Engine
	observer func(engine.Source)
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithSourceObserver attaches an engine-source hook to every identity the
// catalog creates.
func WithSourceObserver(fn func(engine.Source)) CatalogOption {
	return func(c *Catalog) { c.observer = fn }
}

// NewCatalog compiles all scripts in the registry. A script that fails
// validation fails the whole catalog; broken scripts are never served.
func NewCatalog(reg *script.Registry, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{engines: make(map[string]*engine.Engine)}
	for _, opt := range opts {
		opt(c)
	}
	for _, name := range reg.Names() {
		s, _ := reg.Get(name)
		eng, err := engine.New(s)
		if err != nil {
			return nil, fmt.Errorf("compile script %q: %w", name, err)
		}
		c.engines[name] = eng
	}
	return c, nil
}

// Names lists available identity scripts, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.engines))
	for n := range c.engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New creates a fresh identity instance named after its script.
func (c *Catalog) New(scriptName string) (Identity, error) {
	return c.NewNamed(scriptName, scriptName)
}

// NewNamed creates a fresh identity instance with a display name, so one
// script can play several participants in a conversation.
func (c *Catalog) NewNamed(scriptName, displayName string) (Identity, error) {
	eng, ok := c.engines[scriptName]
	if !ok {
		return nil, fmt.Errorf("unknown identity %q", scriptName)
	}
	var opts []ScriptedOption
	if c.observer != nil {
		opts = append(opts, WithObserver(c.observer))
	}
	return NewScripted(displayName, eng, opts...), nil
}
