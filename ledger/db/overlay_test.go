package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, o *Overlay, k string) (ret []byte, found bool) {
	require.NoError(t, o.Get([]byte(k), func(bytes []byte) {
		ret, found = bytes, true
	}))
	return
}

func TestOverlayCommit(t *testing.T) {
	store := NewMemDatabase()
	require.NoError(t, store.Put([]byte("old"), []byte("1")))
	require.NoError(t, store.Put([]byte("gone"), []byte("2")))

	o := NewOverlay(store)
	val, found := get(t, o, "old")
	assert.True(t, found)
	assert.Equal(t, []byte("1"), val)

	require.NoError(t, o.Put([]byte("old"), []byte("3")))
	require.NoError(t, o.Put([]byte("new"), []byte("4")))
	require.NoError(t, o.Delete([]byte("gone")))
	assert.Equal(t, 3, o.Dirty())

	val, _ = get(t, o, "old")
	assert.Equal(t, []byte("3"), val)
	_, found = get(t, o, "gone")
	assert.False(t, found)

	// backend untouched until commit
	stored, _ := store.Get([]byte("old"))
	assert.Equal(t, []byte("1"), stored)

	require.NoError(t, o.Commit())
	assert.Equal(t, 0, o.Dirty())
	stored, _ = store.Get([]byte("old"))
	assert.Equal(t, []byte("3"), stored)
	stored, _ = store.Get([]byte("new"))
	assert.Equal(t, []byte("4"), stored)
	_, err := store.Get([]byte("gone"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverlayDiscard(t *testing.T) {
	store := NewMemDatabase()
	o := NewOverlay(store)
	require.NoError(t, o.Put([]byte("k"), []byte("v")))
	o.Discard()
	require.NoError(t, o.Commit())
	assert.Equal(t, 0, store.Len())
}

func TestOverlayEmptyValueIsPresent(t *testing.T) {
	o := NewOverlay(NewMemDatabase())
	require.NoError(t, o.Put([]byte("k"), nil))
	val, found := get(t, o, "k")
	assert.True(t, found)
	assert.Empty(t, val)
}

func TestReadOnlyOverlay(t *testing.T) {
	o := NewReadOnlyOverlay(NewMemDatabase())
	require.NoError(t, o.Commit())
	require.NoError(t, o.Put([]byte("k"), []byte("v")))
	assert.ErrorIs(t, o.Commit(), ErrReadOnly)
}
