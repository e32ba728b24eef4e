package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"movie-catalog/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// AvatarStore persists uploaded avatar files
type AvatarStore interface {
	Save(filename string, content []byte) (string, error)
	Remove(name string) error
}

type AvatarFileHandler struct {
	fs  afero.Fs
	dir string
	log *zap.Logger
}

// NewAvatarFileHandler stores avatars under dir on fs, creating dir if needed
func NewAvatarFileHandler(fs afero.Fs, dir string, log *zap.Logger) (*AvatarFileHandler, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create avatar dir %s: %w", dir, err)
	}
	return &AvatarFileHandler{
		fs:  fs,
		dir: dir,
		log: log.With(zap.String("storage", "avatar")),
	}, nil
}

// Save writes content as "{stem}_{random hex}{ext}" and returns that name
func (h *AvatarFileHandler) Save(filename string, content []byte) (string, error) {
	name := UniqueFilename(filename)
	path := filepath.Join(h.dir, name)

	if err := afero.WriteFile(h.fs, path, content, 0644); err != nil {
		h.log.Error("Failed to save avatar", zap.Error(err), zap.String("path", path))
		return "", fmt.Errorf("save avatar %s: %w", name, err)
	}

	h.log.Debug("Avatar saved", zap.String("file", name), zap.Int("bytes", len(content)))
	return name, nil
}

// Remove deletes a previously saved avatar
func (h *AvatarFileHandler) Remove(name string) error {
	if err := h.fs.Remove(filepath.Join(h.dir, filepath.Base(name))); err != nil {
		return fmt.Errorf("remove avatar %s: %w", name, err)
	}
	return nil
}

// Stored names must fit the VARCHAR(255) profile_picture column.
const (
	maxStemBytes = 200
	maxExtBytes  = 16
)

// UniqueFilename decorates the base name of filename with a random suffix
func UniqueFilename(filename string) string {
	base := filepath.Base(filepath.Clean("/" + filename))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "/" {
		stem = "avatar"
	}
	if len(stem) > maxStemBytes {
		stem = strings.ToValidUTF8(stem[:maxStemBytes], "")
	}
	if len(ext) > maxExtBytes {
		ext = ""
	}
	return fmt.Sprintf("%s_%s%s", stem, utils.GenerateHexID(), ext)
}
