// Package app implements the application layer for stackhub.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	registry ports.ModuleRegistry
	archiver ports.Archiver
	server   ports.Server
	logger   ports.Logger
	config   *domain.Config
}

// New creates a new App instance.
func New(
	registry ports.ModuleRegistry,
	archiver ports.Archiver,
	server ports.Server,
	logger ports.Logger,
	config *domain.Config,
) *App {
	return &App{
		registry: registry,
		archiver: archiver,
		server:   server,
		logger:   logger,
		config:   config,
	}
}

// Serve runs the HTTP server until ctx is canceled. An empty addr uses the configured address.
func (a *App) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.config.Server.Addr
	}
	if err := a.server.ListenAndServe(ctx, addr); err != nil {
		return zerr.Wrap(err, "server failed")
	}
	return nil
}

// PublishResult reports what Publish did.
type PublishResult int

const (
	// PublishCreated means a new module was created.
	PublishCreated PublishResult = iota
	// PublishAdded means a version was added to an existing module.
	PublishAdded
)

// Publish stores a release, creating the module on first publish.
func (a *App) Publish(ctx context.Context, name, version string, stack, stackm []byte) (PublishResult, error) {
	err := a.registry.CreateModule(ctx, name, version, stack, stackm)
	if err == nil {
		return PublishCreated, nil
	}
	if !errors.Is(err, domain.ErrModuleAlreadyExists) {
		return 0, err
	}

	if err := a.registry.AddVersion(ctx, name, version, stack, stackm); err != nil {
		return 0, err
	}
	return PublishAdded, nil
}

// PublishFiles reads both blobs from disk and publishes them.
func (a *App) PublishFiles(ctx context.Context, name, version, stackPath, stackmPath string) (PublishResult, error) {
	stack, err := os.ReadFile(stackPath)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to read stack file"), "path", stackPath)
	}
	stackm, err := os.ReadFile(stackmPath)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to read stackm file"), "path", stackmPath)
	}
	return a.Publish(ctx, name, version, stack, stackm)
}

// Fetch writes the archive of the selected release into dir and returns the file path.
func (a *App) Fetch(ctx context.Context, name string, sel domain.Selector, dir string) (string, error) {
	rel, err := a.registry.GetRelease(ctx, name, sel)
	if err != nil {
		return "", err
	}

	version := sel.String()
	if sel.IsLatest() {
		version = rel.Version()
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", dir)
	}

	path := filepath.Join(dir, domain.ArchiveFileName(name, version))
	f, err := os.Create(path) //nolint:gosec // Path is built from a validated module name.
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create archive file"), "path", path)
	}

	buildErr := a.archiver.Build(f, name, rel)
	closeErr := f.Close()
	if err := errors.Join(buildErr, closeErr); err != nil {
		_ = os.Remove(path)
		return "", zerr.With(zerr.Wrap(err, "failed to write archive"), "path", path)
	}
	a.logger.Info("wrote " + path)
	return path, nil
}

// List returns all modules with their versions in publication order.
func (a *App) List(ctx context.Context) []domain.ModuleSummary {
	return a.registry.ListModules(ctx)
}

// Module returns the summary of one module.
func (a *App) Module(ctx context.Context, name string) (domain.ModuleSummary, error) {
	return a.registry.Module(ctx, name)
}
