package registry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports/mocks"
	"go.trai.ch/stackhub/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

// memState is an in-memory StateStore that keeps the last saved snapshot.
type memState struct {
	mu    sync.Mutex
	snap  *domain.Snapshot
	saves int
}

func (s *memState) Load() (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return &domain.Snapshot{}, nil
	}
	return s.snap, nil
}

func (s *memState) Save(snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.saves++
	return nil
}

func (s *memState) Close() error { return nil }

func newRegistry(t *testing.T, state *memState) *registry.Registry {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	r, err := registry.New(state, log)
	require.NoError(t, err)
	return r
}

func TestRegistry_CreateModule(t *testing.T) {
	ctx := context.Background()
	state := &memState{}
	r := newRegistry(t, state)

	require.NoError(t, r.CreateModule(ctx, "m", "1.0", []byte("x"), []byte("y")))
	assert.Equal(t, 1, state.saves)

	err := r.CreateModule(ctx, "m", "2.0", []byte("a"), []byte("b"))
	require.ErrorIs(t, err, domain.ErrModuleAlreadyExists)
	assert.Equal(t, 1, state.saves, "rejected create must not persist")

	rel, err := r.GetRelease(ctx, "m", domain.SelectVersion("1.0"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), rel.Stack())
	assert.Equal(t, []byte("y"), rel.Stackm())
}

func TestRegistry_CreateModule_InvalidInput(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})

	require.ErrorIs(t, r.CreateModule(ctx, "m", "1.x", nil, nil), domain.ErrInvalidVersion)
	require.ErrorIs(t, r.CreateModule(ctx, "", "1.0", nil, nil), domain.ErrInvalidModuleName)
	require.ErrorIs(t, r.CreateModule(ctx, "a/b", "1.0", nil, nil), domain.ErrInvalidModuleName)
	assert.Empty(t, r.ListModules(ctx))
}

func TestRegistry_AddVersion(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})

	err := r.AddVersion(ctx, "missing", "1.0", nil, nil)
	require.ErrorIs(t, err, domain.ErrModuleNotFound)

	err = r.AddVersion(ctx, "missing", "not-a-version", nil, nil)
	require.ErrorIs(t, err, domain.ErrModuleNotFound)
	require.NotErrorIs(t, err, domain.ErrInvalidVersion)

	require.NoError(t, r.CreateModule(ctx, "m", "1.0", []byte("x"), []byte("y")))
	require.NoError(t, r.AddVersion(ctx, "m", "2.0", []byte("a"), []byte("b")))

	require.ErrorIs(t, r.AddVersion(ctx, "m", "2.0", nil, nil), domain.ErrVersionAlreadyExists)
	require.ErrorIs(t, r.AddVersion(ctx, "m", "2.0.0", nil, nil), domain.ErrVersionAlreadyExists)
	require.ErrorIs(t, r.AddVersion(ctx, "m", "two", nil, nil), domain.ErrInvalidVersion)

	rel, err := r.GetRelease(ctx, "m", domain.SelectLatest())
	require.NoError(t, err)
	assert.Equal(t, "2.0", rel.Version())
	assert.Equal(t, "m_2.0.zip", domain.ArchiveFileName("m", rel.Version()))
	assert.Equal(t, []byte("a"), rel.Stack())
}

func TestRegistry_GetRelease_Errors(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})

	_, err := r.GetRelease(ctx, "m", domain.SelectLatest())
	require.ErrorIs(t, err, domain.ErrModuleNotFound)

	require.NoError(t, r.CreateModule(ctx, "m", "1.0", nil, nil))

	_, err = r.GetRelease(ctx, "m", domain.SelectVersion("9.9"))
	require.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestRegistry_LatestUsesNumericOrder(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})

	require.NoError(t, r.CreateModule(ctx, "m", "1.9", nil, nil))
	require.NoError(t, r.AddVersion(ctx, "m", "1.10", nil, nil))
	require.NoError(t, r.AddVersion(ctx, "m", "1.2", nil, nil))

	rel, err := r.GetRelease(ctx, "m", domain.SelectLatest())
	require.NoError(t, err)
	assert.Equal(t, "1.10", rel.Version())

	mod, err := r.Module(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2", "1.9", "1.10"}, mod.Versions)
	assert.Equal(t, "1.10", mod.Latest)
}

func TestRegistry_ListModules_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})

	require.NoError(t, r.CreateModule(ctx, "zeta", "2.0", nil, nil))
	require.NoError(t, r.CreateModule(ctx, "alpha", "1.0", nil, nil))
	require.NoError(t, r.AddVersion(ctx, "zeta", "1.0", nil, nil))

	assert.Equal(t, []domain.ModuleSummary{
		{Name: "zeta", Versions: []string{"2.0", "1.0"}},
		{Name: "alpha", Versions: []string{"1.0"}},
	}, r.ListModules(ctx))
}

func TestRegistry_ReloadFromState(t *testing.T) {
	ctx := context.Background()
	state := &memState{}
	r1 := newRegistry(t, state)

	require.NoError(t, r1.CreateModule(ctx, "m", "1.0", []byte{0x00, 0xff}, []byte{}))
	require.NoError(t, r1.AddVersion(ctx, "m", "1.1", []byte("b"), []byte{0x80}))
	require.NoError(t, r1.CreateModule(ctx, "n", "0.1", []byte("c"), []byte("d")))

	r2 := newRegistry(t, state)
	assert.Equal(t, r1.ListModules(ctx), r2.ListModules(ctx))

	rel, err := r2.GetRelease(ctx, "m", domain.SelectVersion("1.0"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, rel.Stack())
	assert.Empty(t, rel.Stackm())
}

func TestRegistry_LoadRejectsCorruptState(t *testing.T) {
	state := &memState{snap: &domain.Snapshot{Modules: []domain.ModuleRecord{
		{Name: "m", Releases: []domain.ReleaseRecord{{Version: "1.0"}}},
		{Name: "m", Releases: []domain.ReleaseRecord{{Version: "2.0"}}},
	}}}

	ctrl := gomock.NewController(t)
	_, err := registry.New(state, mocks.NewMockLogger(ctrl))
	require.ErrorIs(t, err, domain.ErrCorruptState)
}

func TestRegistry_PersistenceFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	state := mocks.NewMockStateStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	state.EXPECT().Load().Return(&domain.Snapshot{}, nil)
	state.EXPECT().Save(gomock.Any()).Return(nil)
	diskFull := errors.New("no space left on device")
	state.EXPECT().Save(gomock.Any()).Return(diskFull).Times(2)

	r, err := registry.New(state, log)
	require.NoError(t, err)

	require.NoError(t, r.CreateModule(ctx, "m", "1.0", nil, nil))

	err = r.AddVersion(ctx, "m", "2.0", nil, nil)
	require.ErrorIs(t, err, domain.ErrPersistenceFailed)
	require.ErrorIs(t, err, diskFull)

	err = r.CreateModule(ctx, "n", "1.0", nil, nil)
	require.ErrorIs(t, err, domain.ErrPersistenceFailed)

	assert.Equal(t, []domain.ModuleSummary{{Name: "m", Versions: []string{"1.0"}}}, r.ListModules(ctx))
	_, err = r.GetRelease(ctx, "m", domain.SelectVersion("2.0"))
	require.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestRegistry_SaveReceivesFullSnapshot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	state := mocks.NewMockStateStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	var saved *domain.Snapshot
	state.EXPECT().Load().Return(nil, nil)
	state.EXPECT().Save(gomock.Any()).DoAndReturn(func(s *domain.Snapshot) error {
		saved = s
		return nil
	}).Times(2)

	r, err := registry.New(state, log)
	require.NoError(t, err)
	require.NoError(t, r.CreateModule(ctx, "m", "1.0", []byte("x"), []byte("y")))
	require.NoError(t, r.AddVersion(ctx, "m", "1.1", []byte("z"), []byte("w")))

	require.Len(t, saved.Modules, 1)
	require.Len(t, saved.Modules[0].Releases, 2)
	assert.Equal(t, "1.1", saved.Modules[0].Releases[1].Version)
	assert.Equal(t, []byte("z"), saved.Modules[0].Releases[1].Stack)
}

func TestRegistry_CanceledContext(t *testing.T) {
	r := newRegistry(t, &memState{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, r.CreateModule(ctx, "m", "1.0", nil, nil), context.Canceled)
	assert.Empty(t, r.ListModules(context.Background()))
}

func TestRegistry_ConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})

	const n = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.CreateModule(ctx, "m", fmt.Sprintf("1.%d", i), nil, nil)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, domain.ErrModuleAlreadyExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(n-1), conflicts.Load())
	assert.Len(t, r.ListModules(ctx), 1)
}

func TestRegistry_ConcurrentAddVersionsAndReads(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &memState{})
	require.NoError(t, r.CreateModule(ctx, "m", "0", nil, nil))

	const n = 16
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.AddVersion(ctx, "m", fmt.Sprintf("%d.0", i), nil, nil))
		}()
		go func() {
			defer wg.Done()
			_, err := r.GetRelease(ctx, "m", domain.SelectLatest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rel, err := r.GetRelease(ctx, "m", domain.SelectLatest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d.0", n), rel.Version())
	assert.Len(t, r.ListModules(ctx)[0].Versions, n+1)
}
