// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package scoped

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Root: filepath.Join(t.TempDir(), RootDirectory), GOOS: "linux"}
}

func TestNew_DefaultRoot(t *testing.T) {
	s := New("")
	assert.Equal(t, RootDirectory, s.Root)
	assert.NotEmpty(t, s.GOOS)

	s = New("elsewhere")
	assert.Equal(t, "elsewhere", s.Root)
}

func TestDefault_EnvOverride(t *testing.T) {
	t.Setenv("STKIT_ROOT", "/tmp/override")
	assert.Equal(t, "/tmp/override", Default().Root)
}

func TestPath(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		rel     string
		wantErr error
	}{
		{name: "simple", rel: "foo.txt"},
		{name: "nested", rel: "foo/bar.txt"},
		{name: "cleaned", rel: "foo/../bar.txt"},
		{name: "parent", rel: "../foo.txt", wantErr: ErrOutsideRoot},
		{name: "absolute", rel: "/etc/passwd", wantErr: ErrOutsideRoot},
		{name: "empty", rel: "", wantErr: ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Path(tt.rel)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
			assert.True(t, strings.HasPrefix(got, s.Root))
		})
	}
}

func TestWriteThenRead(t *testing.T) {
	s := newTestStore(t)
	data := []byte("line one\nline two\x00\xff")

	require.NoError(t, s.WriteFile("config.toml", data))

	got, err := s.ReadFile("config.toml")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestWrite_CreatesParents(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteFile("a/b/c/d.txt", []byte("deep")))

	for _, dir := range []string{"", "a", "a/b", "a/b/c"} {
		info, err := os.Stat(filepath.Join(s.Root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		// Directories stay traversable by the owner.
		assert.NotZero(t, info.Mode().Perm()&0o700)
	}

	got, err := os.ReadFile(filepath.Join(s.Root, "a", "b", "c", "d.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(got))
}

func TestWrite_Truncates(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteFile("f.txt", []byte("a much longer first version")))
	require.NoError(t, s.WriteFile("f.txt", []byte("short")))

	got, err := s.ReadFile("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestRead_ZeroByteFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root, "empty"), nil, 0o600))

	called := false
	err := s.Read("empty", func(io.Reader) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrZeroByteFile)
	assert.False(t, called)

	var zbe *ZeroByteError
	require.True(t, errors.As(err, &zbe))
	assert.True(t, filepath.IsAbs(zbe.Path))
	assert.Contains(t, err.Error(), `read zero byte file: "`)
}

func TestRead_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ReadFile("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrZeroByteFile)
}

func TestRead_CallbackErrorPropagates(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteFile("f", []byte("x")))

	boom := errors.New("boom")
	err := s.Read("f", func(io.Reader) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRead_ReleasesHandleOnPanic(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteFile("f", []byte("x")))

	var handle *os.File
	func() {
		defer func() { _ = recover() }()
		_ = s.Read("f", func(r io.Reader) error {
			handle = r.(*os.File)
			panic("in callback")
		})
	}()

	require.NotNil(t, handle)
	assert.ErrorIs(t, handle.Close(), os.ErrClosed)
}

func TestWrite_ReleasesHandleOnError(t *testing.T) {
	s := newTestStore(t)

	var handle *os.File
	boom := errors.New("boom")
	err := s.Write("f", func(w io.Writer) error {
		handle = w.(*os.File)
		return boom
	})

	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, we.Hint)
	assert.Contains(t, err.Error(), "unable to write file: ")

	assert.ErrorIs(t, handle.Close(), os.ErrClosed)
}

func TestWrite_ParentIsFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteFile("blocker", []byte("x")))

	err := s.WriteFile("blocker/child.txt", []byte("y"))

	var we *WriteError
	assert.True(t, errors.As(err, &we))
}

func TestWriteError_DarwinHint(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		err      error
		wantHint bool
	}{
		{name: "darwin einval", goos: "darwin", err: &os.PathError{Op: "write", Path: "f", Err: syscall.EINVAL}, wantHint: true},
		{name: "linux einval", goos: "linux", err: &os.PathError{Op: "write", Path: "f", Err: syscall.EINVAL}},
		{name: "darwin other", goos: "darwin", err: &os.PathError{Op: "write", Path: "f", Err: syscall.ENOSPC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{Root: t.TempDir(), GOOS: tt.goos}
			err := s.writeError("/abs/f", tt.err)

			var we *WriteError
			require.True(t, errors.As(err, &we))
			assert.Equal(t, "/abs/f", we.Path)
			if tt.wantHint {
				assert.Equal(t, darwinWriteHint, we.Hint)
				assert.Contains(t, err.Error(), "\nGo is limited to files below 2GB on OSX.")
			} else {
				assert.Empty(t, we.Hint)
				assert.NotContains(t, err.Error(), "\n")
			}
		})
	}
}

func TestEnsureRoot(t *testing.T) {
	s := newTestStore(t)

	abs, err := s.EnsureRoot()
	require.NoError(t, err)
	info, err := os.Stat(abs)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List()
	require.NoError(t, err, "missing root is an empty listing")
	assert.Empty(t, entries)

	require.NoError(t, s.WriteFile("b.txt", []byte("bb")))
	require.NoError(t, s.WriteFile("a/z.txt", []byte("z")))
	require.NoError(t, s.WriteFile("a/y.txt", []byte("yyy")))

	entries, err = s.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a/y.txt", entries[0].Path)
	assert.Equal(t, int64(3), entries[0].Size)
	assert.Equal(t, "a/z.txt", entries[1].Path)
	assert.Equal(t, "b.txt", entries[2].Path)
	assert.False(t, entries[2].ModTime.IsZero())
}

func TestPurge(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteFile("old.txt", []byte("o")))
	require.NoError(t, s.WriteFile("keep/new.txt", []byte("n")))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Root, "old.txt"), old, old))

	removed, err := s.Purge(0)
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = s.Purge(24)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.txt"}, removed)

	_, err = os.Stat(filepath.Join(s.Root, "old.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(s.Root, "keep", "new.txt"))
	assert.NoError(t, err)
}

func TestStaticDir(t *testing.T) {
	assert.Equal(t, "static", filepath.Base(StaticDir()))
}
