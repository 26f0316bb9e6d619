package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBundle(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "verdict.json")
	require.NoError(t, os.WriteFile(first, []byte(`{"is_deepfake":true}`), 0644))
	second := filepath.Join(dir, "media.mp4")
	require.NoError(t, os.WriteFile(second, []byte("fake video bytes"), 0644))

	out := filepath.Join(dir, "bundle.zip")
	b := NewZipBundler()
	require.NoError(t, b.CreateBundle(context.Background(), []string{first, second}, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"verdict.json", "media.mp4"}, names)
}

func TestCreateBundleMissingFile(t *testing.T) {
	dir := t.TempDir()

	b := NewZipBundler()
	err := b.CreateBundle(context.Background(), []string{filepath.Join(dir, "nope.txt")}, filepath.Join(dir, "out.zip"))
	assert.Error(t, err)
}

func TestCreateBundleCancelledContext(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewZipBundler()
	err := b.CreateBundle(ctx, []string{f}, filepath.Join(dir, "out.zip"))
	assert.ErrorIs(t, err, context.Canceled)
}
