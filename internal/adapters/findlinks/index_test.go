package findlinks

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grip/internal/adapters/logger"
	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
)

func writeDist(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
}

func mustReq(t *testing.T, token string) domain.Requirement {
	t.Helper()
	req, err := domain.ParseRequirement(token)
	require.NoError(t, err)
	return req
}

func mustSpec(t *testing.T, s string) domain.Specifier {
	t.Helper()
	spec, err := domain.ParseSpecifier(s)
	require.NoError(t, err)
	return spec
}

func newTestIndex(t *testing.T, dirs ...string) *Index {
	t.Helper()
	return New(dirs, logger.NewWithWriter(io.Discard))
}

func poolWithINITools(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDist(t, dir, "INITools-0.1.yaml", `name: INITools
version: "0.1"
files:
  initools/__init__.py: "# 0.1\n"
`)
	writeDist(t, dir, "INITools-0.2.yaml", `name: INITools
version: "0.2"
files:
  initools/__init__.py: "# 0.2\n"
`)
	writeDist(t, dir, "INITools-0.3.yaml", `name: INITools
version: "0.3"
requires:
  - simple>=0.1
files:
  initools/__init__.py: "# 0.3\n"
`)
	writeDist(t, dir, "simple-0.1.yaml", `name: simple
version: "0.1"
files:
  simple.py: "VALUE = 1\n"
`)
	return dir
}

func TestBestVersionIndexRequirement(t *testing.T) {
	ix := newTestIndex(t, poolWithINITools(t))

	tests := []struct {
		name string
		spec string
		want string
	}{
		{name: "unconstrained picks highest", spec: "", want: "0.3"},
		{name: "pin picks exact", spec: "==0.1", want: "0.1"},
		{name: "upper bound", spec: "<0.3", want: "0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ix.BestVersion(t.Context(), mustReq(t, "INITools"), mustSpec(t, tt.spec), ports.LookupOptions{})
			require.NoError(t, err)
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.Original())
		})
	}
}

func TestBestVersionUnknownPackage(t *testing.T) {
	ix := newTestIndex(t, poolWithINITools(t))

	v, err := ix.BestVersion(t.Context(), mustReq(t, "does-not-exist"), domain.Specifier{}, ports.LookupOptions{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBestVersionSkipsCheckoutsForIndexRequirement(t *testing.T) {
	dir := t.TempDir()
	writeDist(t, dir, "version_pkg-0.1.yaml", `name: version_pkg
version: "0.1"
files:
  version_pkg.py: "version = '0.1'\n"
`)
	writeDist(t, dir, "version_pkg-checkout.yaml", `name: version_pkg
version: "0.2"
source: git+https://example.com/version_pkg.git
rev: abc123
files:
  version_pkg.py: "version = '0.2'\n"
`)
	ix := newTestIndex(t, dir)

	v, err := ix.BestVersion(t.Context(), mustReq(t, "version_pkg"), domain.Specifier{}, ports.LookupOptions{})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "0.1", v.Original(), "a checkout must not satisfy an index requirement")
}

func TestBestVersionVCSRequirement(t *testing.T) {
	dir := t.TempDir()
	writeDist(t, dir, "version_pkg-0.1-checkout.yaml", `name: version_pkg
version: "0.1"
source: git+https://example.com/version_pkg.git
rev: abc123
files:
  version_pkg.py: "version = '0.1'\n"
`)
	writeDist(t, dir, "version_pkg-0.2.yaml", `name: version_pkg
version: "0.2"
files:
  version_pkg.py: "version = '0.2'\n"
`)
	ix := newTestIndex(t, dir)

	t.Run("pinned revision wins", func(t *testing.T) {
		req := mustReq(t, "git+https://example.com/version_pkg.git@abc123#egg=version_pkg")
		v, err := ix.BestVersion(t.Context(), req, domain.Specifier{}, ports.LookupOptions{})
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "0.1", v.Original())
	})

	t.Run("unpinned takes the highest known version", func(t *testing.T) {
		req := mustReq(t, "git+https://example.com/version_pkg.git#egg=version_pkg")
		v, err := ix.BestVersion(t.Context(), req, domain.Specifier{}, ports.LookupOptions{})
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "0.2", v.Original())
	})
}

func TestBestVersionDirectURL(t *testing.T) {
	ix := newTestIndex(t, poolWithINITools(t))

	req := mustReq(t, "https://example.com/dists/INITools-0.2.tar.gz")
	v, err := ix.BestVersion(t.Context(), req, domain.Specifier{}, ports.LookupOptions{})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "0.2", v.Original())
}

func TestBestVersionLocalMetadataPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local_pkg-1.0.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: local_pkg
version: "1.0"
files:
  local_pkg.py: "ok\n"
`), 0o644))

	// The index knows nothing about the directory; the path is given directly.
	ix := newTestIndex(t)

	req := mustReq(t, path)
	v, err := ix.BestVersion(t.Context(), req, domain.Specifier{}, ports.LookupOptions{})
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "1.0", v.Original())

	// The loaded entry also serves dependency and payload lookups.
	payload, err := ix.Open(t.Context(), req, v)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", payload.Files["local_pkg.py"])
}

func TestDeps(t *testing.T) {
	ix := newTestIndex(t, poolWithINITools(t))

	v, err := ix.BestVersion(t.Context(), mustReq(t, "INITools"), domain.Specifier{}, ports.LookupOptions{})
	require.NoError(t, err)

	deps, err := ix.Deps(t.Context(), domain.NewName("INITools"), v)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "simple", deps[0].Name.String())

	none, err := ix.Deps(t.Context(), domain.NewName("unknown"), v)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen(t *testing.T) {
	ix := newTestIndex(t, poolWithINITools(t))

	req := mustReq(t, "INITools")
	v, err := ix.BestVersion(t.Context(), req, mustSpec(t, "==0.2"), ports.LookupOptions{})
	require.NoError(t, err)

	payload, err := ix.Open(t.Context(), req, v)
	require.NoError(t, err)
	assert.Equal(t, "INITools", payload.Display)
	assert.Equal(t, "# 0.2\n", payload.Files["initools/__init__.py"])

	_, err = ix.Open(t.Context(), mustReq(t, "missing"), v)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestMissingDirectoryIsEmpty(t *testing.T) {
	ix := newTestIndex(t, filepath.Join(t.TempDir(), "does-not-exist"))

	v, err := ix.BestVersion(t.Context(), mustReq(t, "INITools"), domain.Specifier{}, ports.LookupOptions{})
	require.NoError(t, err)
	assert.Nil(t, v)
}
