package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Config *domain.Config

	state ports.StateStore
}

// jsonSwitcher is implemented by loggers that can switch to JSON output.
type jsonSwitcher interface {
	SetJSON(enabled bool)
}

// NewComponents creates a new Components struct from dependencies and applies
// logging settings from the configuration. The state store is released by Close.
func NewComponents(app *App, logger ports.Logger, cfg *domain.Config, state ports.StateStore) *Components {
	if s, ok := logger.(jsonSwitcher); ok {
		s.SetJSON(cfg.Log.JSON)
	}
	return &Components{
		App:    app,
		Logger: logger,
		Config: cfg,
		state:  state,
	}
}

// Close releases the state store and its lock so another process can open it.
func (c *Components) Close() error {
	if c.state == nil {
		return nil
	}
	if err := c.state.Close(); err != nil {
		return zerr.Wrap(err, "failed to close state store")
	}
	return nil
}

// NewApp resolves the dependency graph and returns the configured Components.
// Each call builds a fresh graph so configuration is read again.
func NewApp(ctx context.Context, opts ...graft.Option) (*Components, error) {
	opts = append([]graft.Option{graft.DisableCache()}, opts...)
	components, _, err := graft.ExecuteFor[*Components](ctx, opts...)
	if err != nil {
		return nil, err
	}
	return components, nil
}
