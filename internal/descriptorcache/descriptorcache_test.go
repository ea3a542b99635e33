package descriptorcache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyIsOrderSensitive(t *testing.T) {
	require.NotEqual(t, Key("a", "b"), Key("b", "a"))
	require.Equal(t, Key("a", "b"), Key("a", "b"))
}

func TestGetBuildsOnceAndCachesInMemory(t *testing.T) {
	c, err := New(8, nil)
	require.NoError(t, err)

	key := Key("modulus", "xi")
	builds := 0
	build := func() (interface{}, error) {
		builds++
		return 42, nil
	}

	v, err := c.Get(key, build, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	v, err = c.Get(key, build, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, builds)
}

func TestGetPropagatesBuildError(t *testing.T) {
	c, err := New(8, nil)
	require.NoError(t, err)

	wantErr := errors.New("construction failed")
	_, err = c.Get(Key("bad"), func() (interface{}, error) { return nil, wantErr }, nil, nil)
	require.ErrorIs(t, err, wantErr)
}

func TestWithPersistenceSurvivesMemoryEviction(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "descriptors.db")

	c, err := New(1, nil)
	require.NoError(t, err)
	require.NoError(t, c.WithPersistence(dbPath))
	defer c.Close()

	encode := func(v interface{}) ([]byte, error) { return []byte{byte(v.(int))}, nil }
	decode := func(b []byte) (interface{}, error) { return int(b[0]), nil }

	builds := 0
	build := func() (interface{}, error) {
		builds++
		return 7, nil
	}

	keyA := Key("curve-a")
	keyB := Key("curve-b")

	v, err := c.Get(keyA, build, encode, decode)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	// Cache size 1: fetching keyB evicts keyA from the in-memory LRU.
	_, err = c.Get(keyB, func() (interface{}, error) { return 9, nil }, encode, decode)
	require.NoError(t, err)

	v, err = c.Get(keyA, build, encode, decode)
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 1, builds, "bbolt layer should have served the second keyA lookup")
}
