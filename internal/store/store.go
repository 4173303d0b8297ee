// Package store reads and writes document records on disk and reloads
// them when the file changes.
//
// The encoding is chosen from the file extension (.json, .yaml, .yml,
// .toml); other extensions fall back to the store's default format.
package store

import (
	"os"
	"path/filepath"

	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/logging"
)

// DefaultMaxFileSize is the largest document file Load accepts.
const DefaultMaxFileSize = 10 * 1024 * 1024

// FileStore loads and saves records.
type FileStore struct {
	format      record.Format
	maxFileSize int64
	logger      *logging.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFormat sets the format used for files without a known extension.
func WithFormat(f record.Format) Option {
	return func(s *FileStore) {
		if f != "" {
			s.format = f
		}
	}
}

// WithMaxFileSize sets the maximum file size. Zero means unlimited.
func WithMaxFileSize(size int64) Option {
	return func(s *FileStore) {
		s.maxFileSize = size
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l.WithComponent("store")
		}
	}
}

// New creates a FileStore.
func New(opts ...Option) *FileStore {
	s := &FileStore{
		format:      record.FormatJSON,
		maxFileSize: DefaultMaxFileSize,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FormatFor returns the encoding used for path.
func (s *FileStore) FormatFor(path string) record.Format {
	if f, err := record.FormatFromPath(path); err == nil {
		return f
	}
	return s.format
}

// Load reads and decodes the record at path.
func (s *FileStore) Load(path string) (record.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return record.Record{}, &PathError{Op: "load", Path: path, Err: err}
	}
	if info.IsDir() {
		return record.Record{}, &PathError{Op: "load", Path: path, Err: ErrIsDirectory}
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return record.Record{}, &PathError{Op: "load", Path: path, Err: ErrFileTooLarge}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return record.Record{}, &PathError{Op: "load", Path: path, Err: err}
	}
	rec, err := record.Decode(data, s.FormatFor(path))
	if err != nil {
		return record.Record{}, &PathError{Op: "load", Path: path, Err: err}
	}
	s.logger.Debug("loaded %s (%d bytes)", path, len(data))
	return rec, nil
}

// Save encodes rec and writes it to path. The file is replaced atomically
// through a temporary file in the same directory.
func (s *FileStore) Save(path string, rec record.Record) error {
	data, err := record.Encode(rec, s.FormatFor(path))
	if err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PathError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	s.logger.Debug("saved %s (%d bytes)", path, len(data))
	return nil
}
