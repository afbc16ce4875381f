package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movie.mkv")

	path := filepath.Join(dir, "movie.mkv")
	files, err := Discover([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscover_UnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.txt")

	_, err := Discover([]string{filepath.Join(dir, "notes.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestDiscover_MissingFile(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "gone.mkv")})
	require.Error(t, err)
}

func TestDiscover_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.mkv", "a.mp4", "cover.jpg", "readme.txt")

	files, err := Discover([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mkv"),
	}, files)
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.txt")

	_, err := Discover([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no video files")
}

func TestDiscover_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "ep1.mkv", "ep2.mkv", "ep1.srt")

	files, err := Discover([]string{filepath.Join(dir, "ep*.mkv")})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "ep1.mkv"), files[0])
}

func TestDiscover_GlobNoMatches(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "*.mkv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found matching")
}

func TestDiscover_GlobNoVideoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "sub.srt")

	_, err := Discover([]string{filepath.Join(dir, "*")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no supported video files")
}

func TestDiscover_MultipleSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.mkv", "two.mp4")

	files, err := Discover([]string{
		filepath.Join(dir, "one.mkv"),
		filepath.Join(dir, "two.mp4"),
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("/x/movie.MKV"))
	assert.True(t, IsVideoFile("show.m2ts"))
	assert.False(t, IsVideoFile("cover.jpg"))
	assert.False(t, IsVideoFile("noext"))
}
