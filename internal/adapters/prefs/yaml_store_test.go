package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLStore_MissingFileIsEmpty(t *testing.T) {
	store := NewYAMLStore(filepath.Join(t.TempDir(), "preferences.yaml"))

	modes, err := store.LoadModes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, modes)
}

func TestYAMLStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	store := NewYAMLStore(path)
	ctx := context.Background()

	require.NoError(t, store.SaveMode(ctx, "class-1", "chf"))
	require.NoError(t, store.SaveMode(ctx, "sub-10", "percent"))
	require.NoError(t, store.SaveMode(ctx, "class-1", "percent"))

	modes, err := NewYAMLStore(path).LoadModes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"class-1": "percent", "sub-10": "percent"}, modes)

	ids, err := store.NodeIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"class-1", "sub-10"}, ids)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "allocation_modes:")
	assert.NoFileExists(t, path+".tmp")
}

func TestYAMLStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allocation_modes: [not, a, map"), 0644))

	_, err := NewYAMLStore(path).LoadModes(context.Background())
	assert.Error(t, err)
}
