package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("accepts a small jpeg", func(t *testing.T) {
		assert.NoError(t, Validate([]byte("fake-jpeg-bytes"), "image/jpeg"))
	})

	t.Run("rejects empty data", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil, "image/jpeg"), ErrEmptyFile)
	})

	t.Run("rejects oversize data", func(t *testing.T) {
		data := bytes.Repeat([]byte("a"), MaxImageSize+1)
		assert.ErrorIs(t, Validate(data, "image/png"), ErrTooLarge)
	})

	t.Run("rejects unsupported content type", func(t *testing.T) {
		assert.ErrorIs(t, Validate([]byte("GIF89a"), "image/gif"), ErrUnsupportedType)
		assert.ErrorIs(t, Validate([]byte("%PDF"), "application/pdf"), ErrUnsupportedType)
	})
}

func TestStorePut(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "http://localhost:8080/storage/")

	t.Run("stores and returns public url", func(t *testing.T) {
		object, err := store.Put([]byte("png-bytes"), "image/png")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(object.PublicURL, "http://localhost:8080/storage/images/"))
		assert.True(t, strings.HasSuffix(object.Path, ".png"))

		written, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(object.Path)))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), written)
	})

	t.Run("rejected upload writes nothing", func(t *testing.T) {
		before, err := os.ReadDir(filepath.Join(root, "images"))
		require.NoError(t, err)

		_, err = store.Put([]byte("GIF89a"), "image/gif")
		assert.ErrorIs(t, err, ErrUnsupportedType)

		after, readErr := os.ReadDir(filepath.Join(root, "images"))
		require.NoError(t, readErr)
		assert.Len(t, after, len(before))
	})
}
