package runlock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWritesPid(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "seedsweep")
	require.NoError(t, err)
	defer lock.Release()

	data, err := os.ReadFile(filepath.Join(dir, "seedsweep.lock"))
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestSecondAcquireFailsImmediately(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "seedsweep")
	require.NoError(t, err)
	defer lock.Release()

	_, err = Acquire(dir, "seedsweep")
	assert.ErrorIs(t, err, ErrHeld)
}

func TestReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir, "seedsweep")
	require.NoError(t, err)
	lock.Release()

	assert.NoFileExists(t, filepath.Join(dir, "seedsweep.lock"))

	lock2, err := Acquire(dir, "seedsweep")
	require.NoError(t, err)
	lock2.Release()
}

func TestDifferentNamesDoNotConflict(t *testing.T) {
	dir := t.TempDir()

	a, err := Acquire(dir, "purge")
	require.NoError(t, err)
	defer a.Release()

	b, err := Acquire(dir, "sync")
	require.NoError(t, err)
	b.Release()
}
