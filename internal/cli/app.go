package cli

import (
	"context"
	"fmt"

	"github.com/hardhatlabs/constructpro/internal/config"
	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/notify"
	"github.com/hardhatlabs/constructpro/internal/session"
	"github.com/hardhatlabs/constructpro/internal/store"
	"github.com/hardhatlabs/constructpro/internal/sync"
)

// app bundles the wired-up application: local store, API client, session
// gate, and the bootstrapped state store. Commands build one, use it, and
// close it.
type app struct {
	cfg     *config.Config
	gateway *store.Gateway
	client  *sync.Client
	gate    *session.Gate
	store   *store.Store
}

// openApp wires the application and runs the bootstrap sequence.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", logger.F("error", err))
		cfg = config.DefaultConfig()
	}

	gw, err := store.OpenGateway(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client, err := sync.NewClient(cfg.ServerURL)
	if err != nil {
		gw.Close()
		return nil, err
	}

	gate := session.NewGate(gw)
	st := store.New(gw, client, gate, notify.Log{})
	st.Bootstrap(ctx)

	return &app{cfg: cfg, gateway: gw, client: client, gate: gate, store: st}, nil
}

// close flushes the store and releases the local database.
func (a *app) close() {
	a.store.Flush()
	if err := a.gateway.Close(); err != nil {
		logger.Error("Failed to close local store", logger.F("error", err))
	}
}
