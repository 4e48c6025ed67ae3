// Package app wires configuration, scripts, storage, and the HTTP API into
// a runnable service.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/parleybot/parley/internal/config"
	"github.com/parleybot/parley/internal/engine"
	"github.com/parleybot/parley/internal/httpapi"
	"github.com/parleybot/parley/internal/identity"
	"github.com/parleybot/parley/internal/observability"
	"github.com/parleybot/parley/internal/script"
	"github.com/parleybot/parley/internal/session"
	"github.com/parleybot/parley/internal/transcript"
)

type BuildResult struct {
	Config      config.Config
	API         *httpapi.Server
	Sessions    *session.Manager
	Catalog     *identity.Catalog
	Scripts     *script.Registry
	Transcripts transcript.Store
	Metrics     *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	transcripts, err := transcript.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("transcript store init failed: %w", err)
	}

	registry := script.NewRegistry()
	if err := registry.LoadDir(cfg.ScriptDir); err != nil {
		_ = transcripts.Close()
		return nil, fmt.Errorf("script dir %q: %w", cfg.ScriptDir, err)
	}
	log.Printf("scripts available: %v", registry.Names())

	catalog, err := identity.NewCatalog(registry, identity.WithSourceObserver(func(src engine.Source) {
		metrics.ResponseSources.WithLabelValues(string(src)).Inc()
	}))
	if err != nil {
		_ = transcripts.Close()
		return nil, err
	}

	if _, err := catalog.New(cfg.DefaultIdentity); err != nil {
		_ = transcripts.Close()
		return nil, fmt.Errorf("default identity: %w", err)
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	api := httpapi.New(cfg, sessions, catalog, transcripts, metrics)

	return &BuildResult{
		Config:      cfg,
		API:         api,
		Sessions:    sessions,
		Catalog:     catalog,
		Scripts:     registry,
		Transcripts: transcripts,
		Metrics:     metrics,
		Cleanup:     transcripts.Close,
	}, nil
}
