package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrFileNotFound is returned when the roster file does not exist.
var ErrFileNotFound = errors.New("data file not found")

// Store reads and writes roster lines.
type Store interface {
	// ReadLines returns every line of the roster, including header and blanks.
	ReadLines(ctx context.Context) ([]string, error)
	// AppendLine adds one line at the end, creating the roster if needed.
	AppendLine(ctx context.Context, line string) error
	// ReplaceLines rewrites the roster. check is called with the current
	// lines while the write slot is held and returns the lines to write.
	ReplaceLines(ctx context.Context, check func(lines []string) ([]string, error)) error
	// Path identifies the roster for logging and sync bookkeeping.
	Path() string
}

// FileStore keeps the roster in a newline-delimited file.
type FileStore struct {
	path    string
	limiter *WriteLimiter
}

// NewFileStore creates a FileStore for path. Writes wait at most writeWait
// for the write slot.
func NewFileStore(path string, writeWait time.Duration) *FileStore {
	return &FileStore{
		path:    path,
		limiter: NewWriteLimiter(1, writeWait),
	}
}

// Path returns the roster file path.
func (s *FileStore) Path() string {
	return s.path
}

// Limiter exposes the write limiter for graceful shutdown.
func (s *FileStore) Limiter() *WriteLimiter {
	return s.limiter
}

// ReadLines reads the whole file.
func (s *FileStore) ReadLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.readLines()
}

func (s *FileStore) readLines() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, s.path)
		}
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", s.path, err)
	}
	return lines, nil
}

// AppendLine appends line followed by a newline. If the existing file does
// not end with a newline one is inserted first so records never merge.
func (s *FileStore) AppendLine(ctx context.Context, line string) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open roster for append: %w", err)
	}
	defer f.Close()

	prefix, err := missingNewline(f)
	if err != nil {
		return fmt.Errorf("inspect roster: %w", err)
	}

	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		return fmt.Errorf("append roster: %w", err)
	}
	return f.Sync()
}

// missingNewline returns "\n" when f is non-empty and its last byte is not a
// newline.
func missingNewline(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() == 0 {
		return "", nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return "", err
	}
	if last[0] == '\n' {
		return "", nil
	}
	return "\n", nil
}

// ReplaceLines re-reads the file under the write slot, lets check validate
// and modify the lines, and then replaces the file atomically. Nothing is
// written when check returns an error.
func (s *FileStore) ReplaceLines(ctx context.Context, check func(lines []string) ([]string, error)) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	lines, err := s.readLines()
	if err != nil {
		return err
	}

	updated, err := check(lines)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeAtomic(updated)
}

func (s *FileStore) writeAtomic(lines []string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp roster: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp roster: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp roster: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace roster: %w", err)
	}
	return nil
}
