package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	path, err := ResolvePath("data/xml")
	require.NoError(t, err)
	require.Equal(t, "data/xml", path)

	root, err := GetWorkspaceRoot()
	require.NoError(t, err)
	stateDir, err := StateDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state"), stateDir)

	path, err = ResolvePath("<dev_state>/bgg/xml")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "bgg", "xml"), path)
}
