package engine

import (
	"bytes"
	"context"
	"crypto/rand"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/treecopy/internal/stats"
)

func hashFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	h := blake3.Sum256(data)
	return h[:]
}

func TestRun_CopyTree(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		t.Run(map[bool]string{false: "concurrent", true: "sequential"}[sequential], func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src")
			dst := filepath.Join(dir, "dst")

			require.NoError(t, os.MkdirAll(filepath.Join(src, "sub", "deep"), 0o755))
			writeFile(t, filepath.Join(src, "root.txt"), "root file", 0o644)
			bigData := make([]byte, 2*1024*1024)
			_, err := rand.Read(bigData)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "big.bin"), bigData, 0o644))
			writeFile(t, filepath.Join(src, "sub", "deep", "nested.txt"), "nested", 0o644)
			require.NoError(t, os.Symlink("nested.txt", filepath.Join(src, "sub", "deep", "link")))

			result := Run(context.Background(), Config{
				Src:        src,
				Dst:        dst,
				Options:    Options{Workers: 4, PreserveTimestamps: true},
				Sequential: sequential,
				Verify:     true,
			})

			require.NoError(t, result.Err)
			assert.Empty(t, result.Differences)
			assert.Equal(t, int64(3), result.Stats.FilesCopied)
			assert.Equal(t, int64(3), result.Stats.DirsCreated)
			assert.Equal(t, int64(1), result.Stats.LinksCreated)
			assert.Equal(t, int64(3), result.Stats.FilesVerified)

			assert.Equal(t, hashFile(t, filepath.Join(src, "sub", "big.bin")), hashFile(t, filepath.Join(dst, "sub", "big.bin")))

			target, err := os.Readlink(filepath.Join(dst, "sub", "deep", "link"))
			require.NoError(t, err)
			assert.Equal(t, "nested.txt", target)
		})
	}
}

func TestRun_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	writeFile(t, src, "single file copy", 0o644)

	result := Run(context.Background(), Config{Src: src, Dst: dst})

	require.NoError(t, result.Err)
	assert.Equal(t, int64(1), result.Stats.FilesCopied)
	assert.Equal(t, hashFile(t, src), hashFile(t, dst))
}

func TestRun_UsesProvidedCollector(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	writeFile(t, src, "x", 0o644)

	collector := stats.NewCollector()
	result := Run(context.Background(), Config{
		Src:     src,
		Dst:     filepath.Join(dir, "dst.txt"),
		Options: Options{Stats: collector},
	})
	require.NoError(t, result.Err)
	assert.Equal(t, int64(1), collector.Snapshot().FilesCopied)
}

func TestRun_ReportsFailure(t *testing.T) {
	dir := t.TempDir()
	result := Run(context.Background(), Config{
		Src:    filepath.Join(dir, "missing"),
		Dst:    filepath.Join(dir, "dst"),
		Verify: true,
	})
	require.Error(t, result.Err)
	assert.Zero(t, result.Stats.FilesCopied)
}

func TestRun_LogsWithOperationID(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	writeFile(t, src, "x", 0o644)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	result := Run(context.Background(), Config{
		Src:     src,
		Dst:     filepath.Join(dir, "dst.txt"),
		Options: Options{Logger: logger},
	})
	require.NoError(t, result.Err)

	out := buf.String()
	assert.Contains(t, out, "copy started")
	assert.Contains(t, out, "copied file")
	assert.Contains(t, out, "copy finished")
	assert.Regexp(t, `op=[0-9a-f]{8}`, out)
	assert.Contains(t, out, "stats.files=1")
}

func TestRun_VerifyMergeIntoExistingDir(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		t.Run(map[bool]string{false: "concurrent", true: "sequential"}[sequential], func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src")
			dst := filepath.Join(dir, "dst")
			writeFile(t, filepath.Join(src, "sub", "a.txt"), "a", 0o644)
			writeFile(t, filepath.Join(src, "fresh", "b.txt"), "b", 0o644)
			require.NoError(t, os.Chmod(filepath.Join(src, "sub"), 0o755))
			require.NoError(t, os.Chmod(filepath.Join(src, "fresh"), 0o750))
			require.NoError(t, os.MkdirAll(filepath.Join(dst, "sub"), 0o700))
			require.NoError(t, os.Chmod(filepath.Join(dst, "sub"), 0o700))
			require.NoError(t, os.Chmod(dst, 0o700))

			result := Run(context.Background(), Config{
				Src:        src,
				Dst:        dst,
				Sequential: sequential,
				Verify:     true,
			})

			require.NoError(t, result.Err)
			assert.Empty(t, result.Differences)
			assert.Equal(t, os.FileMode(0o700), lstatMode(t, filepath.Join(dst, "sub")).Perm())
			assert.Equal(t, os.FileMode(0o750), lstatMode(t, filepath.Join(dst, "fresh")).Perm())
		})
	}
}
