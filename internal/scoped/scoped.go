// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package scoped

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/apex/log"

	"github.com/staranto/stkit/internal/config"
)

// RootDirectory is the directory, relative to the working directory, that all
// scoped paths resolve against.
const RootDirectory = ".streamlit"

// darwinWriteHint is appended to write errors caused by the 2GB single write
// limit on macOS.
const darwinWriteHint = "Go is limited to files below 2GB on OSX. " +
	"See https://bugs.python.org/issue24658"

var (
	// ErrZeroByteFile is matched by errors returned from Read when the target
	// file is empty.
	ErrZeroByteFile = errors.New("read zero byte file")

	// ErrOutsideRoot is returned for paths that are absolute or climb out of the
	// root with "..".
	ErrOutsideRoot = errors.New("path escapes root directory")
)

// ZeroByteError reports an attempt to read an empty file.
type ZeroByteError struct {
	Path string
}

func (e *ZeroByteError) Error() string {
	return fmt.Sprintf("read zero byte file: %q", e.Path)
}

func (e *ZeroByteError) Is(target error) bool {
	return target == ErrZeroByteFile
}

// WriteError wraps any failure of Write. Hint carries platform specific
// advice and is rendered on its own line.
type WriteError struct {
	Path string
	Hint string
	Err  error
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("unable to write file: %s: %v", e.Path, e.Err)
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Entry describes a regular file beneath the root.
type Entry struct {
	// Path is relative to the root and uses forward slashes.
	Path    string
	Size    int64
	ModTime time.Time
}

// Store resolves relative paths against Root. GOOS selects platform specific
// error hints and defaults to runtime.GOOS.
type Store struct {
	Root string
	GOOS string
}

// New returns a Store rooted at root, or at RootDirectory when root is empty.
func New(root string) *Store {
	if root == "" {
		root = RootDirectory
	}
	return &Store{Root: root, GOOS: runtime.GOOS}
}

// Default resolves the root directory.
// Precedence:
//  1. STKIT_ROOT, if set and non-empty
//  2. the "root" config key
//  3. RootDirectory
func Default() *Store {
	if r, ok := os.LookupEnv("STKIT_ROOT"); ok && r != "" {
		return New(r)
	}
	root, _ := config.GetString("root", RootDirectory)
	return New(root)
}

// Path returns the absolute path for rel beneath the root.
func (s *Store) Path(rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return filepath.Abs(filepath.Join(s.Root, rel))
}

// Read opens rel for reading and hands it to fn. The handle is closed on every
// exit path. Empty files are refused with a ZeroByteError.
func (s *Store) Read(rel string, fn func(io.Reader) error) error {
	p, err := s.Path(rel)
	if err != nil {
		return err
	}

	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.Size() == 0 {
		return &ZeroByteError{Path: p}
	}

	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	return fn(f)
}

// Write creates rel, and any missing parent directories, and hands it to fn.
// The handle is closed on every exit path. Every failure is returned as a
// WriteError.
func (s *Store) Write(rel string, fn func(io.Writer) error) (err error) {
	p, err := s.Path(rel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return s.writeError(p, err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:mnd
	if err != nil {
		return s.writeError(p, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = s.writeError(p, cerr)
		}
	}()

	if err := fn(f); err != nil {
		return s.writeError(p, err)
	}
	return nil
}

// ReadFile returns the exact contents of rel.
func (s *Store) ReadFile(rel string) ([]byte, error) {
	var data []byte
	err := s.Read(rel, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		data = b
		return err
	})
	return data, err
}

// WriteFile replaces the contents of rel with data.
func (s *Store) WriteFile(rel string, data []byte) error {
	return s.Write(rel, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// EnsureRoot creates the root directory if it does not exist and returns its
// absolute path.
func (s *Store) EnsureRoot() (string, error) {
	abs, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil { //nolint:mnd
		return abs, fmt.Errorf("failed to create root directory: %w", err)
	}
	return abs, nil
}

// List returns every regular file beneath the root sorted by path. A missing
// root is an empty listing.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.Root {
				return filepath.SkipDir
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Purge removes files older than the provided number of hours and returns the
// removed paths relative to the root. If hours <= 0 it is a no-op.
func (s *Store) Purge(hours int) ([]string, error) {
	if hours <= 0 {
		log.Debug("purge disabled")
		return nil, nil
	}

	entries, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("failed to purge: %w", err)
	}

	maxAge := time.Duration(hours) * time.Hour
	var removed []string
	for _, e := range entries {
		if time.Since(e.ModTime) <= maxAge {
			continue
		}
		path := filepath.Join(s.Root, filepath.FromSlash(e.Path))
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove %s", path)
			continue
		}
		log.Debugf("removed %s", path)
		removed = append(removed, e.Path)
	}
	return removed, nil
}

func (s *Store) writeError(path string, err error) error {
	we := &WriteError{Path: path, Err: err}
	if errors.Is(err, syscall.EINVAL) && s.GOOS == "darwin" {
		we.Hint = darwinWriteHint
	}
	return we
}

// StaticDir returns the "static" directory that ships next to the running
// executable.
func StaticDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "static"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "static")
}
