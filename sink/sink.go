// Package sink provides destinations for generated Java files.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OutputSink receives generated files. Paths are slash-separated and
// relative to the sink's root. Implementations are safe for concurrent use.
type OutputSink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// ValidatePath rejects paths that are empty, absolute, unclean or that
// climb out of the root.
func ValidatePath(p string) error {
	switch {
	case p == "":
		return errors.New("path is empty")
	case strings.HasPrefix(p, "/") || filepath.IsAbs(p) || filepath.VolumeName(p) != "" || hasDriveLetter(p):
		return errors.New("absolute paths not allowed")
	case strings.Contains(p, `\`):
		return errors.New("path must use / separators")
	}
	for _, elem := range strings.Split(p, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if clean := path.Clean(p); clean != p {
		return fmt.Errorf("path is not clean (expected %q)", clean)
	}
	return nil
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}

// FilesystemSink writes files below Root. Each file is written to a
// temporary file in the target directory and renamed into place, so readers
// never observe a partial file.
type FilesystemSink struct {
	Root string

	// Mode is the permission of created files. Zero means 0644.
	Mode os.FileMode

	// Overwrite replaces existing files. When false an existing file is an
	// error.
	Overwrite bool
}

// NewFilesystemSink returns a sink rooted at root that overwrites files.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0o644, Overwrite: true}
}

// WriteFile implements OutputSink.
func (s *FilesystemSink) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ValidatePath(p); err != nil {
		return fmt.Errorf("invalid path %q: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.Root, filepath.FromSlash(p))
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", p, err)
	}

	tmp, err := s.writeTemp(dir, content)
	if err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := s.commit(tmp, target); err != nil {
		os.Remove(tmp)
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", p)
		}
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

func (s *FilesystemSink) writeTemp(dir string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".aidlgen-*.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()
	_, werr := f.Write(content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(name)
		return "", err
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// commit moves tmp to target. Without Overwrite it hard-links instead of
// renaming, which fails atomically when target exists.
func (s *FilesystemSink) commit(tmp, target string) error {
	if s.Overwrite {
		return os.Rename(tmp, target)
	}
	if err := os.Link(tmp, target); err != nil {
		return err
	}
	return os.Remove(tmp)
}

// MemorySink keeps files in memory. It is used by tests and by callers
// that post-process generated output.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile implements OutputSink. The content is copied.
func (s *MemorySink) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ValidatePath(p); err != nil {
		return fmt.Errorf("invalid path %q: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.files[p] = append([]byte(nil), content...)
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the file at p, or nil.
func (s *MemorySink) Get(p string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[p]
	if !ok {
		return nil
	}
	return append([]byte(nil), content...)
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Reset removes all files.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	s.files = make(map[string][]byte)
	s.mu.Unlock()
}

// DiscardSink validates paths and drops content. The check command uses it
// to run generation without producing output.
type DiscardSink struct {
	mu    sync.Mutex
	count int
	bytes int64
}

// WriteFile implements OutputSink.
func (s *DiscardSink) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ValidatePath(p); err != nil {
		return fmt.Errorf("invalid path %q: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.count++
	s.bytes += int64(len(content))
	s.mu.Unlock()
	return nil
}

// Stats returns the number of files and bytes discarded.
func (s *DiscardSink) Stats() (files int, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.bytes
}
