package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gorilla/securecookie"
	"github.com/natefinch/atomic"
)

// ErrInvalidConfig indicates the file store was initialised with missing or invalid options.
var ErrInvalidConfig = errors.New("persist: invalid config")

// ErrTampered is returned when a signed value fails verification.
var ErrTampered = errors.New("persist: value failed verification")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// FileConfig controls where values are written and whether they are signed.
type FileConfig struct {
	Dir string
	// HashKey signs every value when set. BlockKey additionally encrypts and requires HashKey.
	HashKey  []byte
	BlockKey []byte
}

// FileStore keeps one file per key under Dir. Writes go through a temp file and rename.
type FileStore struct {
	dir   string
	codec *securecookie.SecureCookie
}

// NewFileStore constructs a FileStore, creating Dir when needed.
func NewFileStore(cfg FileConfig) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: dir is required", ErrInvalidConfig)
	}
	if len(cfg.BlockKey) > 0 && len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("%w: block key requires a hash key", ErrInvalidConfig)
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("persist: create %s: %w", cfg.Dir, err)
	}

	store := &FileStore{dir: cfg.Dir}
	if len(cfg.HashKey) > 0 {
		var blockKey []byte
		if len(cfg.BlockKey) > 0 {
			blockKey = cfg.BlockKey
		}
		codec := securecookie.New(cfg.HashKey, blockKey)
		codec.SetSerializer(securecookie.JSONEncoder{})
		codec.MaxAge(0)
		codec.MaxLength(0)
		store.codec = codec
	}
	return store, nil
}

// Load decodes the stored value of key into dst.
func (s *FileStore) Load(key string, dst any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("persist: read %s: %w", key, err)
	}

	if s.codec != nil {
		if err := s.codec.Decode(key, string(bytes.TrimSpace(raw)), dst); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTampered, key, err)
		}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("persist: decode %s: %w", key, err)
	}
	return nil
}

// Save writes value under key atomically.
func (s *FileStore) Save(key string, value any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	var raw []byte
	if s.codec != nil {
		encoded, err := s.codec.Encode(key, value)
		if err != nil {
			return fmt.Errorf("persist: encode %s: %w", key, err)
		}
		raw = []byte(encoded)
	} else {
		raw, err = json.Marshal(value)
		if err != nil {
			return fmt.Errorf("persist: encode %s: %w", key, err)
		}
	}

	if err := atomic.WriteFile(path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("persist: write %s: %w", key, err)
	}
	return nil
}

// Remove deletes keys; absent keys are ignored.
func (s *FileStore) Remove(keys ...string) error {
	var errs []error
	for _, key := range keys {
		path, err := s.path(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("persist: remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *FileStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("persist: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
