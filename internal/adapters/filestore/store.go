// Package filestore persists the session envelope in a local JSON file.
//
// The file holds one JSON object whose members are envelopes keyed by profile
// name, so several profiles can share a file. Writers take an exclusive
// cross-process lock and replace the file atomically.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	fileMode      = 0o600
	dirMode       = 0o700
	lockRetryWait = 25 * time.Millisecond
)

// Store implements ports.CredentialStore on top of a JSON file.
type Store struct {
	path   string
	key    string
	lock   *flock.Flock
	logger *slog.Logger
}

// Options configures New.
type Options struct {
	Path   string // required
	Key    string // default "user"
	Logger *slog.Logger
}

// New creates a file-backed credential store. The file is created lazily on Save.
func New(opts Options) (*Store, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = "user"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		key:    key,
		lock:   flock.New(path + ".lock"),
		logger: logger.With("component", "filestore"),
	}, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/saarevents/session.json (or the
// platform equivalent from os.UserConfigDir).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "saarevents", "session.json"), nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the envelope stored under the key, or nil when absent.
// A file that is not a JSON object is reported as absent and logged.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[s.key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	return []byte(raw), nil
}

// Save stores envelope under the key, replacing any previous value.
func (s *Store) Save(ctx context.Context, envelope []byte) error {
	if len(envelope) == 0 {
		return errors.New("envelope cannot be empty")
	}
	if !json.Valid(envelope) {
		return errors.New("envelope is not valid JSON")
	}
	return s.update(ctx, func(doc map[string]json.RawMessage) {
		doc[s.key] = json.RawMessage(envelope)
	})
}

// Clear removes the key. The file is deleted once no profile remains.
func (s *Store) Clear(ctx context.Context) error {
	return s.update(ctx, func(doc map[string]json.RawMessage) {
		delete(doc, s.key)
	})
}

func (s *Store) update(ctx context.Context, mutate func(map[string]json.RawMessage)) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	mutate(doc)

	if len(doc) == 0 {
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", rmErr)
		}
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session file: %w", err)
	}
	return s.writeAtomic(data)
}

func (s *Store) acquire(ctx context.Context, exclusive bool) (func(), error) {
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = s.lock.TryLockContext(ctx, lockRetryWait)
	} else {
		ok, err = s.lock.TryRLockContext(ctx, lockRetryWait)
	}
	if err != nil {
		return nil, fmt.Errorf("lock session file: %w", err)
	}
	if !ok {
		return nil, errors.New("lock session file: not acquired")
	}
	return func() {
		if unlockErr := s.lock.Unlock(); unlockErr != nil {
			s.logger.Warn("unlock session file failed", "error", unlockErr)
		}
	}, nil
}

// read returns the decoded document; a missing file is an empty document.
func (s *Store) read() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("session file is corrupt; treating as empty", "path", s.path, "error", err)
		return map[string]json.RawMessage{}, nil
	}
	return doc, nil
}

func (s *Store) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return nil
}
