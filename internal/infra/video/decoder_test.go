package video

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRejectsInvalidBytes(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	d := NewDecoder(zap.NewNop())

	_, err := d.Open(context.Background(), []byte("not a video at all"))
	require.Error(t, err)

	// The staged temp file must not survive a failed open.
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenHonorsCancelledContext(t *testing.T) {
	d := NewDecoder(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Open(ctx, []byte{0x00})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseRemovesStagedFile(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	srcPath := filepath.Join(t.TempDir(), "src.mp4")
	out, err := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=1:rate=10:size=64x64",
		"-pix_fmt", "yuv420p", "-y", srcPath,
	).CombinedOutput()
	require.NoError(t, err, string(out))

	data, err := os.ReadFile(srcPath)
	require.NoError(t, err)

	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	d := NewDecoder(zap.NewNop())
	src, err := d.Open(context.Background(), data)
	require.NoError(t, err)
	require.Positive(t, src.FrameCount())

	var last int
	for {
		frame, ok := src.Next()
		if !ok {
			break
		}
		assert.Equal(t, last+1, frame.Index)
		last = frame.Index
	}
	assert.Positive(t, last)

	src.Close()
	src.Close() // idempotent

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
