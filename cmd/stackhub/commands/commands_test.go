package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stackhub/cmd/stackhub/commands"
	"go.trai.ch/stackhub/internal/adapters/archive"
	"go.trai.ch/stackhub/internal/adapters/statefile"
	"go.trai.ch/stackhub/internal/app"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports/mocks"
	"go.trai.ch/stackhub/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

type harness struct {
	app    *app.App
	server *mocks.MockServer
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	store, err := statefile.NewStore(filepath.Join(dir, "state.bin"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg, err := registry.New(store, log)
	require.NoError(t, err)

	server := mocks.NewMockServer(ctrl)
	a := app.New(reg, archive.NewZipArchiver(domain.DefaultCompressionLevel), server, log, domain.DefaultConfig())
	return &harness{app: a, server: server, dir: dir}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := commands.New(h.app)
	cli.SetOutput(&out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func (h *harness) writeBlob(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestPublishAndFetch(t *testing.T) {
	h := newHarness(t)
	s1 := h.writeBlob(t, "s1", []byte("stack-1"))
	m1 := h.writeBlob(t, "m1", []byte("stackm-1"))
	s2 := h.writeBlob(t, "s2", []byte("stack-2"))
	m2 := h.writeBlob(t, "m2", []byte{})

	out, err := h.run(t, "publish", "core", "1.9", "--stack", s1, "--stackm", m1)
	require.NoError(t, err)
	assert.Equal(t, "created core 1.9\n", out)

	out, err = h.run(t, "publish", "core", "1.10", "--stack", s2, "--stackm", m2)
	require.NoError(t, err)
	assert.Equal(t, "added core 1.10\n", out)

	outDir := filepath.Join(h.dir, "downloads")
	out, err = h.run(t, "fetch", "core", "-o", outDir)
	require.NoError(t, err)

	path := filepath.Join(outDir, "core_1.10.zip")
	assert.Equal(t, path+"\n", out)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()
	require.Len(t, zr.File, 2)
	assert.Equal(t, "core.stack", zr.File[0].Name)
	assert.Equal(t, "core.stackm", zr.File[1].Name)
}

func TestPublish_DuplicateVersion(t *testing.T) {
	h := newHarness(t)
	s := h.writeBlob(t, "s", []byte("x"))

	_, err := h.run(t, "publish", "core", "1.0", "--stack", s, "--stackm", s)
	require.NoError(t, err)

	_, err = h.run(t, "publish", "core", "1.0", "--stack", s, "--stackm", s)
	require.ErrorIs(t, err, domain.ErrVersionAlreadyExists)
}

func TestPublish_RequiresBlobFlags(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "publish", "core", "1.0")
	require.Error(t, err)
}

func TestFetch_UnknownModule(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "fetch", "ghost", "1.0", "-o", h.dir)
	require.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestModules(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "modules")
	require.NoError(t, err)
	assert.Equal(t, "no modules published\n", out)

	s := h.writeBlob(t, "s", []byte("x"))
	for _, v := range []string{"2.0", "1.0"} {
		_, err = h.run(t, "publish", "b", v, "--stack", s, "--stackm", s)
		require.NoError(t, err)
	}
	_, err = h.run(t, "publish", "a", "0.1", "--stack", s, "--stackm", s)
	require.NoError(t, err)

	out, err = h.run(t, "modules")
	require.NoError(t, err)
	assert.Equal(t, "b: 2.0, 1.0\na: 0.1\n", out)

	out, err = h.run(t, "modules", "b")
	require.NoError(t, err)
	assert.Equal(t, "b: 1.0, 2.0 (latest 2.0)\n", out)
}

func TestServe_PassesAddr(t *testing.T) {
	h := newHarness(t)
	h.server.EXPECT().ListenAndServe(gomock.Any(), "127.0.0.1:8123").Return(nil)

	_, err := h.run(t, "serve", "--addr", "127.0.0.1:8123")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "stackhub version")
}

func TestRoot_Help(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "publish")
}
