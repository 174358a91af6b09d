package fps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/crc"
	"github.com/nsavage/medio/internal/alloc"
	"github.com/nsavage/medio/section"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, body []byte, key *aesutil.ExpandedKey) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.tdat")

	var h section.UniversalHeader
	h.ByteOrder = 1
	h.SetTypeAlias("tdat")
	h.SessionUID = 0xABCD1234
	h.BodyCRC = crc.Checksum(body)

	if key != nil {
		h.PasswordValidation[0] = DeriveValidationField(key, h.SessionUID)
	}

	data := append(h.Bytes(), body...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func TestOpen_Unencrypted(t *testing.T) {
	body := []byte("some block bytes")
	path := writeTestFile(t, body, nil)

	f, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, "tdat", f.Header.Header.TypeAlias())
	require.Equal(t, section.AccessNone, f.Header.Level)
}

func TestOpen_CorrectPassword(t *testing.T) {
	key, err := aesutil.NewExpandedKey(aesutil.DeriveKey("secret"))
	require.NoError(t, err)

	path := writeTestFile(t, []byte("body"), key)

	f, err := Open(path, Directives{}, key)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, section.AccessLevel1, f.Header.Level)
}

func TestOpen_WrongPassword(t *testing.T) {
	key, err := aesutil.NewExpandedKey(aesutil.DeriveKey("secret"))
	require.NoError(t, err)
	wrongKey, err := aesutil.NewExpandedKey(aesutil.DeriveKey("wrong"))
	require.NoError(t, err)

	path := writeTestFile(t, []byte("body"), key)

	_, err = Open(path, Directives{}, wrongKey)
	require.Error(t, err)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.tdat"), Directives{}, nil)
	require.Error(t, err)
}

func TestReadWrite(t *testing.T) {
	path := writeTestFile(t, []byte("0123456789"), nil)

	f, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	defer f.Close()

	data, err := f.Read(int64(section.UniversalHeaderBytes), 10)
	require.NoError(t, err)
	require.Equal(t, []byte("0123456789"), data)

	require.NoError(t, f.Write(int64(section.UniversalHeaderBytes), []byte("ABCDE")))

	data, err = f.Read(int64(section.UniversalHeaderBytes), 5)
	require.NoError(t, err)
	require.Equal(t, []byte("ABCDE"), data)
}

func TestMemoryMapRead_RepeatedReadsHitCache(t *testing.T) {
	path := writeTestFile(t, []byte("the quick brown fox jumps"), nil)

	f, err := Open(path, Directives{MemoryMapReads: true}, nil)
	require.NoError(t, err)
	defer f.Close()

	first, err := f.MemoryMapRead(int64(section.UniversalHeaderBytes), 9)
	require.NoError(t, err)
	require.Equal(t, []byte("the quick"), first)

	require.Len(t, f.pageCache.pages, 1)

	second, err := f.MemoryMapRead(int64(section.UniversalHeaderBytes), 9)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, f.pageCache.pages, 1)
}

func TestReallocate(t *testing.T) {
	path := writeTestFile(t, []byte("short"), nil)

	f, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Reallocate(int64(section.UniversalHeaderBytes)+100))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(section.UniversalHeaderBytes)+100, info.Size())
}

func TestLockUnlock(t *testing.T) {
	path := writeTestFile(t, []byte("x"), nil)
	f, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Lock(LockExclusive))
	require.NoError(t, f.Unlock())
}

func TestUpdateHeaderOnClose(t *testing.T) {
	path := writeTestFile(t, []byte("body"), nil)
	f, err := Open(path, Directives{UpdateUniversalHeader: true}, nil)
	require.NoError(t, err)

	require.NoError(t, f.UpdateHeaderOnClose(9999, 3, 4096, []byte("new body")))
	require.NoError(t, f.Close())

	reopened, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, int64(9999), reopened.Header.Header.FileEndTime)
	require.Equal(t, int64(3), reopened.Header.Header.NumberOfEntries)
}

func TestEnableTracking_RecordsOpenAndFreeOnClose(t *testing.T) {
	path := writeTestFile(t, []byte("body"), nil)

	tr := alloc.NewTracker()
	EnableTracking(tr)
	defer EnableTracking(nil)

	f, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, tr.Count())
	require.Len(t, tr.Leaks(), 1)

	require.NoError(t, f.Close())
	require.Empty(t, tr.Leaks())
}

func TestEnableTracking_Disabled_OpenAndCloseUntracked(t *testing.T) {
	path := writeTestFile(t, []byte("body"), nil)

	f, err := Open(path, Directives{}, nil)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
