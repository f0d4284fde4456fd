// Package uploads stores raw and reformatted dataset files on local disk.
// File names are derived from the sanitized task name. An upload is written
// under a pending name ("<task>-<n>.part") and only takes the task's raw name
// once Publish is called.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	rawSuffix     = ".csv"
	cleanSuffix   = ".clean.csv"
	pendingSuffix = ".part"
)

// Store is a directory of uploaded datasets.
type Store struct {
	dir string
}

// File is one stored upload and the task name it belongs to.
type File struct {
	Task    string
	Path    string
	Size    int64
	ModTime time.Time
	// Clean marks a reformatted file rather than a raw upload.
	Clean bool
	// Pending marks a raw upload that was never published.
	Pending bool
}

// New creates the upload directory if needed and returns a Store rooted at it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("uploads: empty directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// RawPath returns the deterministic path of task's raw upload.
func (s *Store) RawPath(task string) string {
	return filepath.Join(s.dir, task+rawSuffix)
}

// CleanPath returns the path the reformatted file of rawPath is written to.
// rawPath may be a published or a pending upload.
func CleanPath(rawPath string) string {
	stem := strings.TrimSuffix(rawPath, pendingSuffix)
	stem = strings.TrimSuffix(stem, rawSuffix)
	return stem + cleanSuffix
}

// SaveRaw streams r to a new pending file for task and returns its path. The
// task's published raw file is left untouched. A partial file is removed when
// the copy fails.
func (s *Store) SaveRaw(task string, r io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(s.dir, task+"-*"+pendingSuffix)
	if err != nil {
		return "", 0, fmt.Errorf("uploads: create pending %s: %w", task, err)
	}
	path := f.Name()

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", n, fmt.Errorf("uploads: write %s: %w", path, err)
	}

	return path, n, nil
}

// Publish renames a pending upload to task's raw path, replacing any
// previous raw file.
func (s *Store) Publish(pendingPath, task string) (string, error) {
	path := s.RawPath(task)
	if err := os.Rename(pendingPath, path); err != nil {
		return "", fmt.Errorf("uploads: publish %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes path. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("uploads: remove %s: %w", path, err)
	}
	return nil
}

// List returns every raw, pending or reformatted upload in the directory.
// Files not named after a task are ignored.
func (s *Store) List() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("uploads: list: %w", err)
	}

	var files []File
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		task, kind, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Task:    task,
			Path:    filepath.Join(s.dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Clean:   kind == cleanSuffix,
			Pending: kind == pendingSuffix,
		})
	}
	return files, nil
}

// parseName splits a file name into its task and suffix. Accepted stems are
// "<letters>" and, for pending uploads and their clean files, "<letters>-<digits>".
func parseName(name string) (task, kind string, ok bool) {
	var stem string
	switch {
	case strings.HasSuffix(name, cleanSuffix):
		stem, kind = strings.TrimSuffix(name, cleanSuffix), cleanSuffix
	case strings.HasSuffix(name, rawSuffix):
		stem, kind = strings.TrimSuffix(name, rawSuffix), rawSuffix
	case strings.HasSuffix(name, pendingSuffix):
		stem, kind = strings.TrimSuffix(name, pendingSuffix), pendingSuffix
	default:
		return "", "", false
	}

	task, n, hasN := strings.Cut(stem, "-")
	if kind == pendingSuffix && !hasN {
		return "", "", false
	}
	if kind == rawSuffix && hasN {
		return "", "", false
	}
	if hasN && !allIn(n, '0', '9') {
		return "", "", false
	}
	if !allIn(task, 'a', 'z') {
		return "", "", false
	}
	return task, kind, true
}

func allIn(s string, lo, hi byte) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < lo || s[i] > hi {
			return false
		}
	}
	return true
}
