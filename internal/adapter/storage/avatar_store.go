package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// AvatarDir is the avatars directory below the public directory.
const AvatarDir = "avatars"

// LocalAvatarStore keeps avatars on the local filesystem under <publicDir>/avatars.
// Uploads must live on the same volume so Save is a single rename.
type LocalAvatarStore struct {
	publicDir string
	log       *zap.Logger
}

// NewLocalAvatarStore creates the avatars directory if needed.
func NewLocalAvatarStore(publicDir string, log *zap.Logger) (*LocalAvatarStore, error) {
	if err := os.MkdirAll(filepath.Join(publicDir, AvatarDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar dir: %w", err)
	}
	return &LocalAvatarStore{publicDir: publicDir, log: log}, nil
}

// Save moves tempPath to avatars/<name> and returns that relative path.
func (s *LocalAvatarStore) Save(tempPath, name string) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid avatar name %q", name)
	}

	dst := filepath.Join(s.publicDir, AvatarDir, name)
	if err := os.Rename(tempPath, dst); err != nil {
		return "", fmt.Errorf("failed to move avatar: %w", err)
	}

	s.log.Debug("avatar stored", zap.String("path", dst))
	return path.Join(AvatarDir, name), nil
}

// Discard removes an upload that will not be kept. A missing file is not an error.
func (s *LocalAvatarStore) Discard(tempPath string) error {
	if err := os.Remove(tempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// Delete removes a stored avatar given the relative path returned by Save.
func (s *LocalAvatarStore) Delete(avatarURL string) error {
	rel := filepath.FromSlash(avatarURL)
	if !strings.HasPrefix(rel, AvatarDir+string(filepath.Separator)) || strings.Contains(rel, "..") {
		return fmt.Errorf("refusing to delete %q outside the avatar dir", avatarURL)
	}

	if err := os.Remove(filepath.Join(s.publicDir, rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	return nil
}
