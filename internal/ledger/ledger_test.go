package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"camera-transfer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T, dryRun bool) *Ledger {
	t.Helper()
	l, err := Open("", Options{DryRun: dryRun})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_RecordContainsGet(t *testing.T) {
	l := openMemory(t, false)
	h := domain.HashContent([]byte("jpeg bytes"))

	ok, err := l.Contains(h)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Record(h, "2022-07-27T115409_S9700_6228.JPG"))

	ok, err = l.Contains(h)
	require.NoError(t, err)
	assert.True(t, ok)

	name, found, err := l.Get(h)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2022-07-27T115409_S9700_6228.JPG", name)
}

func TestLedger_GetMissing(t *testing.T) {
	l := openMemory(t, false)

	name, found, err := l.Get(domain.HashContent([]byte("nothing")))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestLedger_RecordTwiceIsNoop(t *testing.T) {
	l := openMemory(t, false)
	h := domain.HashContent([]byte("same"))

	require.NoError(t, l.Record(h, "first.jpg"))
	require.NoError(t, l.Record(h, "second.jpg"))

	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	name, _, err := l.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "first.jpg", name)
}

func TestLedger_DryRunNeverWrites(t *testing.T) {
	l := openMemory(t, true)
	h := domain.HashContent([]byte("x"))

	require.NoError(t, l.Record(h, "x.jpg"))

	ok, err := l.Contains(h)
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := l.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLedger_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "camera-transfer.db")
	h := domain.HashContent([]byte("persist me"))

	l, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, l.Record(h, "kept.jpg"))
	require.NoError(t, l.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	l, err = Open(path, Options{})
	require.NoError(t, err)
	defer l.Close()

	name, found, err := l.Get(h)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "kept.jpg", name)
}

func TestLedger_DryRunSeesExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	h := domain.HashContent([]byte("seen before"))

	l, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, l.Record(h, "seen.jpg"))
	require.NoError(t, l.Close())

	dry, err := Open(path, Options{DryRun: true})
	require.NoError(t, err)
	defer dry.Close()

	ok, err := dry.Contains(h)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_MemoryLedgersArePrivate(t *testing.T) {
	a := openMemory(t, false)
	b := openMemory(t, false)
	h := domain.HashContent([]byte("only in a"))

	require.NoError(t, a.Record(h, "a.jpg"))

	ok, err := b.Contains(h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Open(filepath.Join(blocker, "ledger.db"), Options{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLedgerIO)
}

func TestLedger_ClosedStoreFails(t *testing.T) {
	l, err := Open("", Options{})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.Contains(domain.HashContent([]byte("x")))
	assert.ErrorIs(t, err, domain.ErrLedgerIO)
}
