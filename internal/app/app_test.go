package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grip/internal/adapters/logger"
	"go.trai.ch/grip/internal/adapters/site"
	"go.trai.ch/grip/internal/adapters/telemetry"
	"go.trai.ch/grip/internal/core/domain"
)

// testEnv is a throwaway install environment over a find-links pool.
type testEnv struct {
	app   *App
	root  string
	store *site.Store
	pool  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	pool := t.TempDir()

	store, err := site.NewStore(root)
	require.NoError(t, err)

	log := logger.NewWithWriter(io.Discard)
	app := New(root, store, log, telemetry.NewNoOpReporter(), []string{pool})
	return &testEnv{app: app, root: root, store: store, pool: pool}
}

func (e *testEnv) addDist(t *testing.T, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.pool, filename), []byte(content), 0o644))
}

func (e *testEnv) addINITools(t *testing.T) {
	t.Helper()
	e.addDist(t, "INITools-0.1.yaml", `name: INITools
version: "0.1"
files:
  initools/__init__.py: "# initools 0.1\n"
  initools/legacy.py: "OLD = True\n"
`)
	e.addDist(t, "INITools-0.2.yaml", `name: INITools
version: "0.2"
files:
  initools/__init__.py: "# initools 0.2\n"
`)
	e.addDist(t, "INITools-0.3.yaml", `name: INITools
version: "0.3"
files:
  initools/__init__.py: "# initools 0.3\n"
`)
}

func (e *testEnv) installedVersion(t *testing.T, name string) string {
	t.Helper()
	dist, err := e.store.Lookup(domain.NewName(name))
	require.NoError(t, err)
	require.NotNil(t, dist, "expected %s to be installed", name)
	return dist.Version.Original()
}

func (e *testEnv) fileContent(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestInstallPicksHighestVersion(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools"}, InstallOptions{}))

	assert.Equal(t, "0.3", env.installedVersion(t, "INITools"))
	assert.Equal(t, "# initools 0.3\n", env.fileContent(t, "initools/__init__.py"))
}

func TestInstallSatisfiedIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.1"}, InstallOptions{}))
	assert.Equal(t, "0.1", env.installedVersion(t, "INITools"))

	// A second unconstrained install leaves the satisfied 0.1 alone.
	require.NoError(t, env.app.Install(t.Context(), []string{"INITools"}, InstallOptions{}))
	assert.Equal(t, "0.1", env.installedVersion(t, "INITools"))
}

func TestInstallPinnedVersionUpgradesWithoutFlag(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.1"}, InstallOptions{}))
	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.2"}, InstallOptions{}))

	assert.Equal(t, "0.2", env.installedVersion(t, "INITools"))
	assert.Equal(t, "# initools 0.2\n", env.fileContent(t, "initools/__init__.py"))

	// Files only the superseded version owned are gone.
	_, err := os.Stat(filepath.Join(env.root, "initools/legacy.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallUpgradeMode(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.1"}, InstallOptions{}))
	require.NoError(t, env.app.Install(t.Context(), []string{"INITools"}, InstallOptions{Mode: domain.ModeUpgradeRoots}))
	assert.Equal(t, "0.3", env.installedVersion(t, "INITools"))

	// Upgrading again is an "already up-to-date" no-op, not an error.
	require.NoError(t, env.app.Install(t.Context(), []string{"INITools"}, InstallOptions{Mode: domain.ModeUpgradeRoots}))
	assert.Equal(t, "0.3", env.installedVersion(t, "INITools"))
}

func TestUpgradeLeavesSatisfiedDependencyAlone(t *testing.T) {
	env := newTestEnv(t)
	env.addDist(t, "parent-1.0.yaml", `name: parent
version: "1.0"
requires:
  - child>=0.1
files:
  parent.py: "# parent 1.0\n"
`)
	env.addDist(t, "parent-2.0.yaml", `name: parent
version: "2.0"
requires:
  - child>=0.1
files:
  parent.py: "# parent 2.0\n"
`)
	env.addDist(t, "child-0.1.yaml", `name: child
version: "0.1"
files:
  child.py: "# child 0.1\n"
`)
	env.addDist(t, "child-0.2.yaml", `name: child
version: "0.2"
files:
  child.py: "# child 0.2\n"
`)

	require.NoError(t, env.app.Install(t.Context(), []string{"parent==1.0", "child==0.1"}, InstallOptions{}))

	require.NoError(t, env.app.Install(t.Context(), []string{"parent"}, InstallOptions{Mode: domain.ModeUpgradeRoots}))
	assert.Equal(t, "2.0", env.installedVersion(t, "parent"))
	assert.Equal(t, "0.1", env.installedVersion(t, "child"))

	require.NoError(t, env.app.Install(t.Context(), []string{"parent"}, InstallOptions{Mode: domain.ModeUpgradeRecursive}))
	assert.Equal(t, "0.2", env.installedVersion(t, "child"))
}

func TestInstallBrokenDistRollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)
	env.addDist(t, "broken-1.0.yaml", `name: broken
version: "1.0"
digest: "xxh64:0000000000000000"
files:
  broken.py: "corrupt\n"
`)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.1"}, InstallOptions{}))

	err := env.app.Install(t.Context(), []string{"INITools==0.2", "broken"}, InstallOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuild)

	// The half-done upgrade was rolled back with the failed install.
	assert.Equal(t, "0.1", env.installedVersion(t, "INITools"))
	assert.Equal(t, "# initools 0.1\n", env.fileContent(t, "initools/__init__.py"))
	assert.Equal(t, "OLD = True\n", env.fileContent(t, "initools/legacy.py"))

	broken, err := env.store.Lookup(domain.NewName("broken"))
	require.NoError(t, err)
	assert.Nil(t, broken)
}

func TestUninstallAndReinstall(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.2"}, InstallOptions{}))
	require.NoError(t, env.app.Uninstall(t.Context(), []string{"INITools"}, nil))

	dist, err := env.store.Lookup(domain.NewName("INITools"))
	require.NoError(t, err)
	assert.Nil(t, dist)
	_, err = os.Stat(filepath.Join(env.root, "initools/__init__.py"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.2"}, InstallOptions{}))
	assert.Equal(t, "0.2", env.installedVersion(t, "INITools"))
}

func TestUninstallMissingFails(t *testing.T) {
	env := newTestEnv(t)

	err := env.app.Uninstall(t.Context(), []string{"nowhere"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDistributionNotFound)
}

func TestInstallFromRequirementsFile(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	reqFile := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(reqFile, []byte("# pinned\nINITools==0.2\n"), 0o644))

	require.NoError(t, env.app.Install(t.Context(), nil, InstallOptions{Requirements: []string{reqFile}}))
	assert.Equal(t, "0.2", env.installedVersion(t, "INITools"))
}

func TestInstallNothingRequested(t *testing.T) {
	env := newTestEnv(t)

	err := env.app.Install(t.Context(), nil, InstallOptions{})
	assert.ErrorIs(t, err, domain.ErrNoRequirements)
}

func TestInstallUnsatisfiableLeavesEnvironmentUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	err := env.app.Install(t.Context(), []string{"INITools==9.9"}, InstallOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsatisfiableRequirement)

	dist, lerr := env.store.Lookup(domain.NewName("INITools"))
	require.NoError(t, lerr)
	assert.Nil(t, dist)
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	env.addINITools(t)

	require.NoError(t, env.app.Install(t.Context(), []string{"INITools==0.2"}, InstallOptions{}))

	dists, err := env.app.List(t.Context())
	require.NoError(t, err)
	require.Len(t, dists, 1)
	assert.Equal(t, "INITools", dists[0].Display)
}
