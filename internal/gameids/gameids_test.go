package gameids

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids", "game_ids.txt")

	require.NoError(t, Write(path, []string{"224517", "161936", "224517", "174430"}))
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "224517\n161936\n174430\n", string(contents))

	ids, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, []string{"224517", "161936", "174430"}, ids)
}

func TestReadBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n 13 \r\n\n822\n"), 0600))

	ids, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, []string{"13", "822"}, ids)
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("13\ncatan\n"), 0600))

	_, err := Read(path)
	require.ErrorContains(t, err, ":2:")
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
