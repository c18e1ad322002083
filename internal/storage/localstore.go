// Package storage persists the wallet snapshot as one JSON blob under a
// fixed storage key, the server-side stand-in for browser local storage.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"lazorwallet/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultStorageKey is the fixed name the snapshot blob is stored under.
const DefaultStorageKey = "lazorkit-wallet-storage"

// SeedMarker records that the demo catalog was already seeded once.
const SeedMarker = "lazorkit-demo-seeded-v1"

// snapshot is the persisted shape. SchemaVersion gates the migration chain.
type snapshot struct {
	SchemaVersion int                `json:"schemaVersion"`
	State         entity.WalletState `json:"state"`
}

// meta is the sibling record used to decide whether the blob must be wiped
// on load: a demo-flag flip invalidates whatever was persisted under the
// previous flag.
type meta struct {
	DemoEnabled bool   `json:"demoEnabled"`
	SeedMarker  string `json:"seedMarker,omitempty"`
}

// LocalStore reads and writes the wallet snapshot on local disk. Writes are
// atomic (temp file + rename); a corrupt or stale blob degrades to the
// caller-provided fresh state, never a crash.
type LocalStore struct {
	dir         string
	key         string
	demoEnabled bool
	logger      *zap.Logger
}

// NewLocalStore creates a store rooted at dir. An empty key falls back to
// DefaultStorageKey.
func NewLocalStore(dir, key string, demoEnabled bool, logger *zap.Logger) *LocalStore {
	if key == "" {
		key = DefaultStorageKey
	}
	return &LocalStore{
		dir:         dir,
		key:         key,
		demoEnabled: demoEnabled,
		logger:      logger.Named("LocalStore"),
	}
}

func (s *LocalStore) blobPath() string { return filepath.Join(s.dir, s.key+".json") }
func (s *LocalStore) metaPath() string { return filepath.Join(s.dir, s.key+".meta.json") }

// Persist serializes the full wallet state. Called on every state change.
func (s *LocalStore) Persist(state entity.WalletState) error {
	snap := snapshot{SchemaVersion: CurrentSchemaVersion, State: state}
	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir %s: %w", s.dir, err)
	}
	if err := writeAtomic(s.blobPath(), data); err != nil {
		return fmt.Errorf("failed to write wallet snapshot: %w", err)
	}

	m := meta{DemoEnabled: s.demoEnabled, SeedMarker: SeedMarker}
	metaData, err := json.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to marshal storage meta: %w", err)
	}
	if err := writeAtomic(s.metaPath(), metaData); err != nil {
		return fmt.Errorf("failed to write storage meta: %w", err)
	}
	return nil
}

// Load restores the persisted wallet state. fresh is the initial snapshot
// consistent with the current demo flag; it is returned whenever the blob
// is missing, unreadable, from a different demo flag, or fails migration.
// The boolean reports whether the persisted blob was used.
func (s *LocalStore) Load(fresh entity.WalletState) (entity.WalletState, bool) {
	metaData, err := os.ReadFile(s.metaPath())
	if err == nil {
		var m meta
		if err := json.Unmarshal(metaData, &m); err != nil {
			s.logger.Warn("Corrupt storage meta, discarding persisted snapshot", zap.Error(err))
			return fresh, false
		}
		if m.DemoEnabled != s.demoEnabled {
			s.logger.Info("Demo flag changed since last run, discarding persisted snapshot",
				zap.Bool("was", m.DemoEnabled),
				zap.Bool("now", s.demoEnabled))
			return fresh, false
		}
	} else if !os.IsNotExist(err) {
		s.logger.Warn("Failed to read storage meta", zap.Error(err))
		return fresh, false
	}

	data, err := os.ReadFile(s.blobPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read wallet snapshot", zap.Error(err))
		}
		return fresh, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("Corrupt wallet snapshot, starting from the initial state", zap.Error(err))
		return fresh, false
	}

	migrated, err := migrate(snap)
	if err != nil {
		s.logger.Warn("Snapshot migration failed, starting from the initial state",
			zap.Int("schemaVersion", snap.SchemaVersion),
			zap.Error(err))
		return fresh, false
	}

	s.logger.Debug("Loaded persisted wallet snapshot",
		zap.Int("schemaVersion", snap.SchemaVersion),
		zap.Int("tokens", len(migrated.State.Tokens)),
		zap.Int("activity", len(migrated.State.Activity)))
	return migrated.State, true
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
