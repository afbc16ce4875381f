package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestFindCoverImage(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "movie.mkv")
	touch(t, dir, "banner.png")
	touch(t, dir, "front.jpg")
	touch(t, dir, "Cover.jpeg")

	assert.Equal(t, filepath.Join(dir, "Cover.jpeg"), FindCoverImage(dir))

	require.NoError(t, os.Remove(filepath.Join(dir, "Cover.jpeg")))
	assert.Equal(t, filepath.Join(dir, "front.jpg"), FindCoverImage(dir))

	require.NoError(t, os.Remove(filepath.Join(dir, "front.jpg")))
	assert.Equal(t, filepath.Join(dir, "banner.png"), FindCoverImage(dir))
}

func TestFindCoverImage_NoImages(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "movie.mkv")
	touch(t, dir, "notes.txt")
	assert.Equal(t, "", FindCoverImage(dir))
}

func TestFindCoverImage_MissingDir(t *testing.T) {
	assert.Equal(t, "", FindCoverImage(filepath.Join(t.TempDir(), "nope")))
}
