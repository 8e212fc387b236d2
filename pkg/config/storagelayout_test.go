package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadStorageLayoutMissingPathReturnsZeroValue(t *testing.T) {
	layout, err := LoadStorageLayout("")
	require.NoError(t, err)
	require.Nil(t, layout.Slots)
}

func TestStorageLayoutSaveAndLoadRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "layout.yml")

	want := StorageLayout{Slots: map[string]uint64{"owner": 0, "balances": 1}}
	require.NoError(t, want.Save(path))

	got, err := LoadStorageLayout(path)
	require.NoError(t, err)
	require.Equal(t, want.Slots, got.Slots)
}

func TestLoadStorageLayoutRejectsUnknownFields(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "layout.yml")
	require.NoError(t, os.WriteFile(path, []byte("Typo: 1\n"), 0o644))

	_, err := LoadStorageLayout(path)
	require.Error(t, err)
}
