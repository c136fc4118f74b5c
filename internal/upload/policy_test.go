package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, int64(10<<20), p.MaxItemSizeBytes)
	assert.Len(t, p.AllowedTypes, 12)
	assert.True(t, p.Allows("image/png"))
	assert.True(t, p.Allows("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.False(t, p.Allows("application/zip"))
	assert.Equal(t, "10", p.LimitMB())
}

func TestPolicy_Check(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name    string
		raw     models.RawItem
		wantErr string
	}{
		{
			name: "allowed",
			raw:  models.RawItem{Name: "a.png", Type: "image/png", Size: 1024},
		},
		{
			name: "exactly at limit",
			raw:  models.RawItem{Name: "big.pdf", Type: "application/pdf", Size: 10 << 20},
		},
		{
			name:    "unsupported type",
			raw:     models.RawItem{Name: "x.zip", Type: "application/zip", Size: 10},
			wantErr: "x.zip: File type application/zip is not supported",
		},
		{
			name:    "too large",
			raw:     models.RawItem{Name: "huge.mp4", Type: "video/mp4", Size: 10<<20 + 1},
			wantErr: "huge.mp4: File size must be less than 10MB",
		},
		{
			name:    "blank name",
			raw:     models.RawItem{Name: "   ", Type: "image/png", Size: 10},
			wantErr: "   : File name must not be blank",
		},
		{
			name:    "name too long",
			raw:     models.RawItem{Name: strings.Repeat("n", 300) + ".png", Type: "image/png", Size: 10},
			wantErr: strings.Repeat("n", 300) + ".png: File name must be at most 255 characters",
		},
		{
			name: "name at limit",
			raw:  models.RawItem{Name: strings.Repeat("n", 251) + ".png", Type: "image/png", Size: 10},
		},
		{
			name:    "name checked before type",
			raw:     models.RawItem{Name: "", Type: "application/zip", Size: 10},
			wantErr: ": File name must not be blank",
		},
		{
			name:    "type checked before size",
			raw:     models.RawItem{Name: "huge.zip", Type: "application/zip", Size: 50 << 20},
			wantErr: "huge.zip: File type application/zip is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.raw)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestPolicy_FractionalLimit(t *testing.T) {
	p, err := NewPolicy([]string{"text/plain"}, 1536*1024)
	require.NoError(t, err)

	err = p.Check(models.RawItem{Name: "notes.txt", Type: "text/plain", Size: 2 << 20})
	require.Error(t, err)
	assert.Equal(t, "notes.txt: File size must be less than 1.5MB", err.Error())
}

func TestLoadPolicy(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		p, err := LoadPolicy("")
		require.NoError(t, err)
		assert.True(t, p.Allows("audio/wav"))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_item_size_bytes: 2048\nallowed_types: [text/csv]\n"), 0o644))

		p, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.True(t, p.Allows("text/csv"))
		assert.False(t, p.Allows("image/png"))
		assert.Equal(t, int64(2048), p.MaxItemSizeBytes)
	})

	t.Run("omitted size limit uses default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("allowed_types: [text/csv]\n"), 0o644))

		p, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, int64(config.DefaultMaxItemSizeBytes), p.MaxItemSizeBytes)
	})

	t.Run("negative size limit", func(t *testing.T) {
		_, err := NewPolicy([]string{"text/csv"}, -1)
		assert.Error(t, err)
	})

	t.Run("invalid policy", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_item_size_bytes: 0\nallowed_types: []\n"), 0o644))

		_, err := LoadPolicy(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
