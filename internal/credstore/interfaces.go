package credstore

import (
	"context"
	"errors"
)

var (
	// ErrBackup indicates the pre-refresh backup could not be written.
	// The live credential document is untouched when this occurs.
	ErrBackup = errors.New("failed to write credential backup")

	// ErrWrite indicates the updated credential document could not be
	// persisted. The backup from the same attempt remains for recovery.
	ErrWrite = errors.New("failed to write credential document")
)

// Store reads and persists one Claude credential document.
//
// Backup must be called before Save on any refresh that reaches the write
// stage; a Backup failure aborts before anything destructive happens.
type Store interface {
	// Source describes where the document lives, for logs and reporting.
	Source() string

	// Load reads and normalizes the stored credential document.
	Load(ctx context.Context) (*Document, error)

	// Backup preserves the document's original content so a failed Save
	// leaves a last-known-good copy behind. An existing backup is
	// overwritten.
	Backup(ctx context.Context, doc *Document) error

	// Save durably replaces the stored document with doc's current state.
	Save(ctx context.Context, doc *Document) error
}
