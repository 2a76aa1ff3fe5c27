package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Store is durable persistence for the current session. It is the single
// source of truth surviving process restarts; the pipeline reads it fresh at
// the start of every request because a concurrent refresh may have rotated
// the tokens since the caller last looked.
type Store interface {
	// Get returns the stored session, or ErrNoSession when none exists.
	Get() (*Session, error)

	// Set replaces the stored session. Access token, refresh token and
	// cached user are written together in one atomic update.
	Set(*Session) error

	// Clear removes the stored session entirely.
	Clear() error
}

const sessionFile = "session.json"

// FileStore persists the session as a JSON file on the local filesystem.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a session store rooted at baseDir.
// If baseDir is empty, uses ~/.gymctl/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".gymctl")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return &FileStore{baseDir: baseDir}, nil
}

// Get reads the stored session.
func (s *FileStore) Get() (*Session, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	if sess.AccessToken == "" {
		return nil, ErrNoSession
	}

	return &sess, nil
}

// Set writes the session atomically via a temp file and rename, so a crash
// mid-write can never leave an access token without its refresh token.
func (s *FileStore) Set(sess *Session) error {
	if sess == nil || sess.AccessToken == "" {
		return errors.New("session must carry an access token")
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := s.path()
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	log.Debug().Bool("hasRefreshToken", sess.RefreshToken != "").Msg("session stored")

	return nil
}

// Clear removes the session file. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	log.Debug().Msg("session cleared")

	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.baseDir, sessionFile)
}
