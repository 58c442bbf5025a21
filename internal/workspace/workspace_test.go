package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExplicitWins(t *testing.T) {
	res, err := Resolver{}.Resolve("/data/out", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Resolution{Folder: "/data/out", Source: SourceExplicit}, res)
}

func TestResolve_FindsProjectInAncestor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), nil, 0o644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	res, err := Resolver{}.Resolve("", nested)
	require.NoError(t, err)

	assert.Equal(t, SourceProject, res.Source)
	assert.Equal(t, filepath.Join(root, OutputDirName), res.Folder)
}

func TestResolve_NearestProjectWins(t *testing.T) {
	root := t.TempDir()
	inner := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(inner, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inner, ProjectFileName), nil, 0o644))

	res, err := Resolver{}.Resolve("", inner)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(inner, OutputDirName), res.Folder)
}

func TestResolve_FallsBackToHome(t *testing.T) {
	home := t.TempDir()
	res, err := Resolver{HomeDir: home}.Resolve("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, filepath.Join(home, OutputDirName), res.Folder)
}

func TestResolve_DoesNotCreateFolder(t *testing.T) {
	home := t.TempDir()
	res, err := Resolver{HomeDir: home}.Resolve("", t.TempDir())
	require.NoError(t, err)

	_, statErr := os.Stat(res.Folder)
	assert.True(t, os.IsNotExist(statErr))
}
