// Package registry implements the version-indexed module store.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry holds every module in memory and writes the full state through to a
// ports.StateStore on each mutation.
//
// Mutations are serialized by writeMu and persisted before they are published
// under mu, so readers only ever observe durably saved state.
type Registry struct {
	state ports.StateStore
	log   ports.Logger

	writeMu sync.Mutex

	mu      sync.RWMutex
	modules map[string]*domain.Module
	order   []string
}

var _ ports.ModuleRegistry = (*Registry)(nil)

// New creates a Registry and loads the persisted state.
func New(state ports.StateStore, log ports.Logger) (*Registry, error) {
	r := &Registry{
		state:   state,
		log:     log,
		modules: make(map[string]*domain.Module),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load() error {
	snap, err := r.state.Load()
	if err != nil {
		return zerr.Wrap(err, "failed to load store state")
	}
	if snap == nil {
		return nil
	}

	for _, rec := range snap.Modules {
		if _, dup := r.modules[rec.Name]; dup {
			return zerr.With(zerr.Wrap(domain.ErrCorruptState, "duplicate module"), "module", rec.Name)
		}
		m, err := rec.Module()
		if err != nil {
			return err
		}
		r.modules[rec.Name] = m
		r.order = append(r.order, rec.Name)
	}

	if len(r.order) > 0 {
		r.log.Info(fmt.Sprintf("loaded %d modules from store state", len(r.order)))
	}
	return nil
}

// CreateModule creates name with a single release at version.
func (r *Registry) CreateModule(ctx context.Context, name, version string, stack, stackm []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := domain.NewRelease(version, stack, stackm)
	if err != nil {
		return zerr.With(err, "module", name)
	}
	m, err := domain.NewModule(name, rel)
	if err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if r.lookup(name) != nil {
		return zerr.With(zerr.Wrap(domain.ErrModuleAlreadyExists, "create module"), "module", name)
	}

	if err := r.commit(m); err != nil {
		return err
	}

	r.log.Info(fmt.Sprintf("created module %s at version %s", name, rel.Version()))
	return nil
}

// AddVersion appends a release at version to the existing module name.
// A missing module is reported before an invalid version.
func (r *Registry) AddVersion(ctx context.Context, name, version string, stack, stackm []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.lookup(name)
	if current == nil {
		return zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "add version"), "module", name)
	}

	rel, err := domain.NewRelease(version, stack, stackm)
	if err != nil {
		return zerr.With(err, "module", name)
	}

	grown, err := current.WithRelease(rel)
	if err != nil {
		return err
	}

	if err := r.commit(grown); err != nil {
		return err
	}

	r.log.Info(fmt.Sprintf("added version %s to module %s", rel.Version(), name))
	return nil
}

// GetRelease resolves sel against the releases of name.
func (r *Registry) GetRelease(_ context.Context, name string, sel domain.Selector) (domain.Release, error) {
	m := r.lookup(name)
	if m == nil {
		return domain.Release{}, zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "get release"), "module", name)
	}
	return m.Resolve(sel)
}

// ListModules returns every module in creation order.
func (r *Registry) ListModules(_ context.Context) []domain.ModuleSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ModuleSummary, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.modules[name].Summary())
	}
	return out
}

// Module returns name with versions in ascending order and its latest version.
func (r *Registry) Module(_ context.Context, name string) (domain.ModuleSummary, error) {
	m := r.lookup(name)
	if m == nil {
		return domain.ModuleSummary{}, zerr.With(zerr.Wrap(domain.ErrModuleNotFound, "get module"), "module", name)
	}

	latest, err := m.Resolve(domain.SelectLatest())
	if err != nil {
		return domain.ModuleSummary{}, err
	}

	return domain.ModuleSummary{
		Name:     m.Name(),
		Versions: m.SortedVersions(),
		Latest:   latest.Version(),
	}, nil
}

func (r *Registry) lookup(name string) *domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modules[name]
}

// commit persists the store with m replacing (or appended as) its module,
// then publishes m in memory. Callers must hold writeMu.
func (r *Registry) commit(m *domain.Module) error {
	r.mu.RLock()
	_, exists := r.modules[m.Name()]
	snap := &domain.Snapshot{Modules: make([]domain.ModuleRecord, 0, len(r.order)+1)}
	for _, name := range r.order {
		if name == m.Name() {
			snap.Modules = append(snap.Modules, m.Record())
			continue
		}
		snap.Modules = append(snap.Modules, r.modules[name].Record())
	}
	r.mu.RUnlock()

	if !exists {
		snap.Modules = append(snap.Modules, m.Record())
	}

	if err := r.state.Save(snap); err != nil {
		if !errors.Is(err, domain.ErrPersistenceFailed) {
			err = errors.Join(domain.ErrPersistenceFailed, err)
		}
		return zerr.With(err, "module", m.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !exists {
		r.order = append(r.order, m.Name())
	}
	r.modules[m.Name()] = m
	return nil
}
