package credstore

import (
	"context"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the keychain item Claude Code writes its
// credential JSON to on macOS.
const DefaultKeyringService = "Claude Code-credentials"

// KeyringStore reads and writes the credential document held in OS-native
// credential storage (macOS Keychain, Windows Credential Manager, Linux
// Secret Service). The payload is the same JSON document the file layout
// uses, so both backends share one decode/apply path.
type KeyringStore struct {
	service      string
	user         string
	backupSuffix string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore for the given service and user
// identifiers. An empty backupSuffix falls back to DefaultBackupSuffix.
func NewKeyringStore(service, user, backupSuffix string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}
	if backupSuffix == "" {
		backupSuffix = DefaultBackupSuffix
	}
	return &KeyringStore{service: service, user: user, backupSuffix: backupSuffix}, nil
}

// Source describes the keyring entry for reporting.
func (k *KeyringStore) Source() string {
	return fmt.Sprintf("keyring %s/%s", k.service, k.user)
}

// Load reads and decodes the credential payload from the keyring.
func (k *KeyringStore) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := keyring.Get(k.service, k.user)
	if err != nil {
		return nil, fmt.Errorf("reading keyring entry %s/%s: %w", k.service, k.user, err)
	}
	return Decode([]byte(payload))
}

// Backup copies the original payload to a sibling keyring entry,
// overwriting any previous backup.
func (k *KeyringStore) Backup(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := keyring.Set(k.service, k.user+k.backupSuffix, string(doc.Original())); err != nil {
		return fmt.Errorf("%w: %v", ErrBackup, err)
	}
	return nil
}

// Save overwrites the live keyring entry with the document's current state.
func (k *KeyringStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
