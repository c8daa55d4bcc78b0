package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_ResolvesRelativeToCWD(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	defer chdir(t, tmp)()

	got, err := EnsureDir("uploads")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "uploads"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDir(path)
	require.Error(t, err)
}

func TestWriteFileAtomic_ReplacesContentAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "videos.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`[1]`), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte(`[1,2]`), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `[1,2]`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not survive")
}

func TestWriteFileAtomic_MissingDirFails(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "x.json"), []byte("{}"), 0o600)
	require.Error(t, err)
}

func TestMoveFile_SameDevice(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	dst := filepath.Join(dir, "dst.mp4")
	require.NoError(t, os.WriteFile(src, []byte("frames"), 0o600))

	require.NoError(t, MoveFile(src, dst))

	_, err := os.Stat(src)
	require.True(t, os.IsNotExist(err))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "frames", string(b))
}

func TestMoveFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := MoveFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	require.Error(t, err)
}

// crossDevice makes renames of src fail the way they do across filesystems.
func crossDevice(t *testing.T, src string) {
	t.Helper()
	orig := rename
	t.Cleanup(func() { rename = orig })
	rename = func(oldpath, newpath string) error {
		if oldpath == src {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
		}
		return orig(oldpath, newpath)
	}
}

func TestMoveFile_CrossDeviceCopies(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.mp4")
	dstDir := t.TempDir()
	dst := filepath.Join(dstDir, "dst.mp4")
	require.NoError(t, os.WriteFile(src, []byte("frames"), 0o600))
	crossDevice(t, src)

	require.NoError(t, MoveFile(src, dst))

	_, err := os.Stat(src)
	require.True(t, os.IsNotExist(err))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "frames", string(b))

	entries, err := os.ReadDir(dstDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMoveFile_CrossDeviceSourceCleanupIsBestEffort(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.mp4")
	dst := filepath.Join(t.TempDir(), "dst.mp4")
	require.NoError(t, os.WriteFile(src, []byte("frames"), 0o600))
	crossDevice(t, src)

	origRemove := remove
	t.Cleanup(func() { remove = origRemove })
	remove = func(string) error { return errors.New("device busy") }

	require.NoError(t, MoveFile(src, dst))
	require.FileExists(t, dst)
	require.FileExists(t, src)
}

func TestMoveFile_CrossDeviceMissingDestDir(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.mp4")
	dst := filepath.Join(t.TempDir(), "nope", "dst.mp4")
	require.NoError(t, os.WriteFile(src, []byte("frames"), 0o600))
	crossDevice(t, src)

	require.Error(t, MoveFile(src, dst))
	require.FileExists(t, src)
	require.NoFileExists(t, dst)
}
