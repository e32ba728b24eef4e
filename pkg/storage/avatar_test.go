package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUniqueFilename(t *testing.T) {
	pattern := regexp.MustCompile(`^me_[0-9a-f]{32}\.png$`)
	assert.Regexp(t, pattern, UniqueFilename("me.png"))
	assert.Regexp(t, pattern, UniqueFilename("../../etc/me.png"), "directories are dropped")
	assert.Regexp(t, `^avatar_[0-9a-f]{32}\.jpg$`, UniqueFilename(".jpg"))
	assert.NotEqual(t, UniqueFilename("me.png"), UniqueFilename("me.png"))
}

func TestUniqueFilename_LongNames(t *testing.T) {
	name := UniqueFilename(strings.Repeat("a", 400) + ".png")
	assert.LessOrEqual(t, len(name), 255)
	assert.Regexp(t, `^a{200}_[0-9a-f]{32}\.png$`, name)

	name = UniqueFilename("a" + strings.Repeat("é", 150) + ".jpg")
	assert.LessOrEqual(t, len(name), 255)
	assert.True(t, utf8.ValidString(name), "stem cut on a rune boundary")
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	name = UniqueFilename("me." + strings.Repeat("x", 300))
	assert.LessOrEqual(t, len(name), 255)
	assert.Regexp(t, `^me_[0-9a-f]{32}$`, name)
}

func TestAvatarFileHandler(t *testing.T) {
	fs := afero.NewMemMapFs()
	h, err := NewAvatarFileHandler(fs, "media/profile", zap.NewNop())
	require.NoError(t, err)

	name, err := h.Save("me.png", []byte("png-bytes"))
	require.NoError(t, err)

	path := filepath.Join("media/profile", name)
	content, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, h.Remove(name))
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Error(t, h.Remove(name))
}

func TestNewAvatarFileHandler_ReadOnlyFs(t *testing.T) {
	_, err := NewAvatarFileHandler(afero.NewReadOnlyFs(afero.NewMemMapFs()), "media", zap.NewNop())
	assert.Error(t, err)
}
