package credstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBackupSuffix is appended to the credential path for the
// pre-refresh copy.
const DefaultBackupSuffix = ".backup"

// FileStore reads and writes a credential file on the local filesystem.
// Saves go through a temp file + rename in the same directory, so the live
// file is never observed half-written; an interrupted run leaves at worst
// an orphaned temp file next to an intact original.
type FileStore struct {
	path         string
	backupSuffix string
}

// Compile-time check to ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for the given credential file path.
// An empty backupSuffix falls back to DefaultBackupSuffix.
func NewFileStore(path, backupSuffix string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if backupSuffix == "" {
		backupSuffix = DefaultBackupSuffix
	}
	return &FileStore{path: path, backupSuffix: backupSuffix}, nil
}

// Path returns the live credential file location.
func (f *FileStore) Path() string { return f.path }

// Source describes the store for logs and reporting.
func (f *FileStore) Source() string { return f.path }

// BackupPath returns where Backup writes the pre-refresh copy.
func (f *FileStore) BackupPath() string { return f.path + f.backupSuffix }

// Load reads and decodes the credential file.
func (f *FileStore) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return Decode(data)
}

// Backup writes the document's original bytes next to the live file,
// overwriting any previous backup.
func (f *FileStore) Backup(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(f.BackupPath(), doc.Original(), 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrBackup, err)
	}
	return nil
}

// Save atomically replaces the live file with the document's current state.
func (f *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	dir := filepath.Dir(f.path)
	tempFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tempName := tempFile.Name()
	// Cleanup deferred for all exit paths
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Chmod(tempName, 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	// Atomic rename to final location
	if err := os.Rename(tempName, f.path); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
