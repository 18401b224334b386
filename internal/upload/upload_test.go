package upload

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/contentanalyzer/internal/models"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestStage(t *testing.T) {
	dir := t.TempDir()
	stager, err := NewStager(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxFileSize, stager.MaxSize())

	t.Run("png", func(t *testing.T) {
		data := pngBytes(t)
		file, err := stager.Stage("../holiday.png", bytes.NewReader(data))
		require.NoError(t, err)

		assert.NotEmpty(t, file.ID)
		assert.Equal(t, "holiday.png", file.OriginalName)
		assert.Equal(t, file.ID+".png", file.Filename)
		assert.Equal(t, filepath.Join(dir, file.Filename), file.Path)
		assert.Equal(t, "image/png", file.MIMEType)
		assert.Equal(t, models.FileTypeImage, file.FileType)
		assert.Equal(t, int64(len(data)), file.Size)
		assert.False(t, file.UploadedAt.IsZero())

		saved, err := os.ReadFile(file.Path)
		require.NoError(t, err)
		assert.Equal(t, data, saved)
	})

	t.Run("pdf sniffed regardless of name", func(t *testing.T) {
		file, err := stager.Stage("notes.txt", strings.NewReader("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"))
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.MIMEType)
		assert.Equal(t, models.FileTypePDF, file.FileType)
		assert.Equal(t, ".pdf", filepath.Ext(file.Filename))
	})

	t.Run("ids are unique", func(t *testing.T) {
		a, err := stager.Stage("a.png", bytes.NewReader(pngBytes(t)))
		require.NoError(t, err)
		b, err := stager.Stage("a.png", bytes.NewReader(pngBytes(t)))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestStageRejects(t *testing.T) {
	stager, err := NewStager(t.TempDir(), 64)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content []byte
		want    error
	}{
		{"empty", nil, ErrEmptyFile},
		{"plain text", []byte("hello world"), ErrUnsupportedType},
		{"html", []byte("<html><body>hi</body></html>"), ErrUnsupportedType},
		{"too large", bytes.Repeat([]byte("a"), 65), ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stager.Stage("upload", bytes.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}

	entries, err := os.ReadDir(stager.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads must not be written")
}

func TestRemove(t *testing.T) {
	stager, err := NewStager(t.TempDir(), 0)
	require.NoError(t, err)

	file, err := stager.Stage("x.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	require.NoError(t, stager.Remove(file.Path))
	_, err = os.Stat(file.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, stager.Remove(file.Path), "removing twice is fine")
}

func TestFileTypeForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want models.FileType
	}{
		{"application/pdf", models.FileTypePDF},
		{"image/jpeg", models.FileTypeImage},
		{"image/png", models.FileTypeImage},
		{"image/tiff", models.FileTypeImage},
		{"image/bmp", models.FileTypeImage},
		{"IMAGE/PNG", models.FileTypeImage},
		{"text/plain; charset=utf-8", models.FileTypeUnknown},
		{"", models.FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, FileTypeForMIME(tt.mime))
		})
	}
}
