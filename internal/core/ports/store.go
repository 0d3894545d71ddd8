// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/stackhub/internal/core/domain"
)

// ModuleRegistry is the version-indexed artifact store.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ModuleRegistry interface {
	// CreateModule creates a module with its first release.
	CreateModule(ctx context.Context, name, version string, stack, stackm []byte) error

	// AddVersion appends a release to an existing module.
	AddVersion(ctx context.Context, name, version string, stack, stackm []byte) error

	// GetRelease resolves sel against the module's releases.
	GetRelease(ctx context.Context, name string, sel domain.Selector) (domain.Release, error)

	// ListModules returns every module in creation order with versions in insertion order.
	ListModules(ctx context.Context) []domain.ModuleSummary

	// Module returns one module with versions sorted ascending and its latest version.
	Module(ctx context.Context, name string) (domain.ModuleSummary, error)
}

// StateStore persists the full store content.
type StateStore interface {
	// Load returns the persisted snapshot, or an empty one when nothing was saved yet.
	Load() (*domain.Snapshot, error)

	// Save durably replaces the persisted snapshot.
	Save(snapshot *domain.Snapshot) error

	// Close releases the store and any lock it holds on the persisted state.
	Close() error
}
