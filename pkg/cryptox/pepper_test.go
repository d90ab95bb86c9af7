package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// usePepperPath points the package at path for one test and restores the
// TestMain pepper afterwards.
func usePepperPath(t *testing.T, path string) {
	t.Helper()

	orig := pepperFile
	SetPepperPath(path)
	t.Cleanup(func() { SetPepperPath(orig) })
}

func TestPepperIsGeneratedOnceAndReused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")
	usePepperPath(t, path)

	require.NoError(t, LoadPepper())
	first := GetPepper()
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh load from the same file sees the same value.
	SetPepperPath(path)
	require.Equal(t, first, GetPepper())
}

func TestPepperReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("restored-pepper\n"), 0o600))
	usePepperPath(t, path)

	require.Equal(t, "restored-pepper", GetPepper())
}

func TestLoadPepperErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pepper")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		usePepperPath(t, path)

		require.ErrorContains(t, LoadPepper(), "empty")
		require.Panics(t, func() { GetPepper() })
	})

	t.Run("no path", func(t *testing.T) {
		usePepperPath(t, "")
		require.ErrorContains(t, LoadPepper(), "pepper path not set")
	})
}

func TestHashesDependOnPepper(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	require.NoError(t, VerifyPassword("Passw0rd", hash))

	usePepperPath(t, filepath.Join(t.TempDir(), "other"))
	require.ErrorIs(t, VerifyPassword("Passw0rd", hash), ErrPasswordMismatch)
}
