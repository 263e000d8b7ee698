package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cuemby/preflight/pkg/log"
	"github.com/cuemby/preflight/pkg/metrics"
	"github.com/rs/zerolog"
)

const (
	// DefaultHistoryDir is the snapshot directory created next to the
	// configuration being managed.
	DefaultHistoryDir = ".preflight_history"

	// MaxSnapshots is how many snapshots the store retains; older ones
	// are pruned after each save.
	MaxSnapshots = 50

	filePrefix = "snapshot_"
	fileSuffix = ".json"
)

// ErrNoSnapshots is returned by RollbackToLatest when the store holds
// nothing to restore.
var ErrNoSnapshots = errors.New("no snapshots available")

// Meta describes one stored snapshot.
type Meta struct {
	TS      int64  `json:"ts"`
	ISOTime string `json:"iso_ts"`
	SHA256  string `json:"sha256"`
}

// Snapshot is the on-disk wrapper around one configuration revision.
type Snapshot struct {
	Meta   Meta   `json:"_meta"`
	Config string `json:"config"`
}

// FileStore keeps timestamped configuration snapshots as JSON files in
// a single directory. Writes go through a temp file and an atomic
// rename, and a mutex serializes them, so readers always see complete
// snapshots. Saving the same text twice in a row is a no-op that
// returns the existing path.
type FileStore struct {
	dir    string
	keep   int
	mu     sync.Mutex
	logger zerolog.Logger
}

// DefaultDir returns the snapshot directory under base.
func DefaultDir(base string) string {
	return filepath.Join(base, DefaultHistoryDir)
}

// NewFileStore creates a store rooted at dir. The directory is created
// on the first save, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:    dir,
		keep:   MaxSnapshots,
		logger: log.WithComponent("snapshot"),
	}
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save stores configYAML as a new snapshot and returns its path. When
// the text matches the latest snapshot's digest, no file is written
// and the existing path comes back. Retention is enforced after every
// write.
func (s *FileStore) Save(configYAML string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create history dir: %w", err)
	}

	sum := sha256.Sum256([]byte(configYAML))
	digest := hex.EncodeToString(sum[:])

	if paths, err := s.listLocked(); err == nil && len(paths) > 0 {
		// An unreadable latest snapshot is no reason to refuse the
		// save; the dedupe check just doesn't apply.
		if latest, err := s.Load(paths[0]); err == nil && latest.Meta.SHA256 == digest {
			s.logger.Debug().Str("path", paths[0]).Msg("configuration unchanged, reusing latest snapshot")
			return paths[0], nil
		}
	}

	now := time.Now()
	ts := now.UnixMilli()
	path := filepath.Join(s.dir, fmt.Sprintf("%s%d%s", filePrefix, ts, fileSuffix))
	for {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		ts++
		path = filepath.Join(s.dir, fmt.Sprintf("%s%d%s", filePrefix, ts, fileSuffix))
	}

	snap := Snapshot{
		Meta: Meta{
			TS:      ts,
			ISOTime: now.UTC().Format("2006-01-02T15:04:05Z"),
			SHA256:  digest,
		},
		Config: configYAML,
	}
	if err := writeAtomic(path, snap); err != nil {
		return "", err
	}

	s.pruneLocked()
	metrics.SnapshotsSaved.Inc()
	s.logger.Info().Str("path", path).Msg("snapshot saved")
	return path, nil
}

// List returns snapshot paths, newest first. A store whose directory
// does not exist yet lists as empty.
func (s *FileStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Load reads and decodes the snapshot at path.
func (s *FileStore) Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

// Latest returns the newest snapshot path, or "" when the store is
// empty.
func (s *FileStore) Latest() (string, error) {
	paths, err := s.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}
	return paths[0], nil
}

// RollbackToLatest loads the newest snapshot and returns its
// configuration text along with the snapshot path. An empty store
// returns ErrNoSnapshots.
func (s *FileStore) RollbackToLatest() (configYAML, path string, err error) {
	path, err = s.Latest()
	if err != nil {
		return "", "", err
	}
	if path == "" {
		return "", "", ErrNoSnapshots
	}
	snap, err := s.Load(path)
	if err != nil {
		return "", path, err
	}
	metrics.RollbacksTotal.Inc()
	s.logger.Info().Str("path", path).Msg("rolled back to latest snapshot")
	return snap.Config, path, nil
}

// Count reports how many snapshots are currently retained.
func (s *FileStore) Count() int {
	paths, err := s.List()
	if err != nil {
		return 0
	}
	return len(paths)
}

func (s *FileStore) listLocked() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	type candidate struct {
		path string
		name string
		mod  time.Time
	}
	found := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{
			path: filepath.Join(s.dir, name),
			name: name,
			mod:  info.ModTime(),
		})
	}

	// Newest first; equal mtimes fall back to the name, whose embedded
	// millisecond timestamp breaks the tie.
	sort.Slice(found, func(i, j int) bool {
		if !found[i].mod.Equal(found[j].mod) {
			return found[i].mod.After(found[j].mod)
		}
		return found[i].name > found[j].name
	})

	paths := make([]string, len(found))
	for i, c := range found {
		paths[i] = c.path
	}
	return paths, nil
}

func (s *FileStore) pruneLocked() {
	paths, err := s.listLocked()
	if err != nil || len(paths) <= s.keep {
		return
	}
	for _, old := range paths[s.keep:] {
		if err := os.Remove(old); err != nil {
			s.logger.Warn().Err(err).Str("path", old).Msg("failed to prune snapshot")
		}
	}
}

func writeAtomic(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	return nil
}
