package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapStorage map[string]string

func (m mapStorage) GetItem(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapStorage) SetItem(key, value string) error {
	m[key] = value
	return nil
}

func (m mapStorage) RemoveItem(key string) error {
	delete(m, key)
	return nil
}

type brokenStorage struct{}

func (brokenStorage) GetItem(string) (string, bool, error) { return "", false, errors.New("quota exceeded") }
func (brokenStorage) SetItem(string, string) error         { return errors.New("quota exceeded") }
func (brokenStorage) RemoveItem(string) error              { return errors.New("quota exceeded") }

func TestGuardGrantAndCheck(t *testing.T) {
	storage := mapStorage{}
	guard := NewGuard(storage, 24*time.Hour)
	now := time.Now()

	expiry, err := guard.Grant(now)
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(24*time.Hour), expiry, time.Second)
	require.Equal(t, "true", storage[StorageKeyAuthenticated])
	require.Equal(t, strconv.FormatInt(expiry.UnixMilli(), 10), storage[StorageKeyExpiry])

	require.True(t, guard.Check(now.Add(time.Hour)))
}

func TestGuardClearsExpiredFlag(t *testing.T) {
	storage := mapStorage{}
	guard := NewGuard(storage, 24*time.Hour)
	now := time.Now()

	_, err := guard.Grant(now)
	require.NoError(t, err)

	// 時計を 25 時間進めて再読み込みした状態
	require.False(t, guard.Check(now.Add(25*time.Hour)))
	require.Empty(t, storage)
}

func TestGuardRejectsMissingOrForgedValues(t *testing.T) {
	now := time.Now()

	require.False(t, NewGuard(mapStorage{}, 0).Check(now))

	storage := mapStorage{StorageKeyAuthenticated: "true", StorageKeyExpiry: "soon"}
	require.False(t, NewGuard(storage, 0).Check(now))
	require.Empty(t, storage)

	storage = mapStorage{StorageKeyAuthenticated: "true"}
	require.False(t, NewGuard(storage, 0).Check(now))

	storage = mapStorage{StorageKeyAuthenticated: "yes", StorageKeyExpiry: strconv.FormatInt(now.Add(time.Hour).UnixMilli(), 10)}
	require.False(t, NewGuard(storage, 0).Check(now))
}

func TestGuardStorageErrorsAreUnauthenticated(t *testing.T) {
	guard := NewGuard(brokenStorage{}, time.Hour)

	require.False(t, guard.Check(time.Now()))
	_, err := guard.Grant(time.Now())
	require.Error(t, err)
	require.Error(t, guard.Clear())
}
