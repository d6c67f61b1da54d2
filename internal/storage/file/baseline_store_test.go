package file

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/interfaces"
)

func newTestBaselineStore(t *testing.T) *BaselineStore {
	t.Helper()
	dir := t.TempDir()
	return NewBaselineStore(filepath.Join(dir, "baselines"), filepath.Join(dir, "diffs"), common.GetLogger())
}

func TestBaselineStore_LoadMissing(t *testing.T) {
	store := newTestBaselineStore(t)

	_, err := store.Load("never saved")
	assert.True(t, errors.Is(err, interfaces.ErrBaselineNotFound))
}

func TestBaselineStore_SaveAndLoad(t *testing.T) {
	store := newTestBaselineStore(t)
	payload := []byte("png-bytes")

	require.NoError(t, store.Save("Home Page", payload))
	loaded, err := store.Load("Home Page")
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)
}

func TestBaselineStore_ListDeleteClear(t *testing.T) {
	store := newTestBaselineStore(t)
	require.NoError(t, store.Save("one", []byte("a")))
	require.NoError(t, store.Save("two", []byte("b")))

	names, err := store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, names)

	require.NoError(t, store.Delete("one"))
	require.NoError(t, store.Delete("one"), "deleting an absent baseline is a no-op")

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, names)

	require.NoError(t, store.Clear())
	names, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestBaselineStore_ListEmptyDir(t *testing.T) {
	store := newTestBaselineStore(t)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestBaselineStore_Diffs(t *testing.T) {
	store := newTestBaselineStore(t)

	path, err := store.SaveDiff("checkout page", []byte("diff-bytes"))
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "checkout_page-diff.png")

	require.NoError(t, store.ClearDiffs())
	assert.NoFileExists(t, path)
}
