package wiring_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stackhub/internal/app"
	_ "go.trai.ch/stackhub/internal/wiring"
)

// TestGraphResolves builds the full node graph against a throwaway state file.
func TestGraphResolves(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("STACKHUB_CONFIG", "")
	t.Setenv("STACKHUB_STATE", filepath.Join(dir, "state.bin"))

	ctx := context.Background()
	components, _, err := graft.ExecuteFor[*app.Components](ctx, graft.DisableCache())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NoError(t, components.Close())

	// Closing released the state lock, so the graph resolves again in the same process.
	again, _, err := graft.ExecuteFor[*app.Components](ctx, graft.DisableCache())
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
