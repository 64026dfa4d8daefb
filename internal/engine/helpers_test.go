package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bamsammich/treecopy/internal/event"
)

// strategies runs a test body against both copy strategies.
var strategies = []struct {
	name string
	copy func(src, dst string, opts Options) error
}{
	{"sync", CopySync},
	{"concurrent", func(src, dst string, opts Options) error {
		return Copy(context.Background(), src, dst, opts)
	}},
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
}

// createTestTree populates root with a standard test tree:
//
//	root.txt          (17 bytes)
//	big.bin           (320KB)
//	sub/mid.txt       (19 bytes, 0600)
//	sub/deep/leaf.txt (17 bytes)
//	link.txt          → root.txt (symlink)
func createTestTree(t *testing.T, root string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	writeFile(t, filepath.Join(root, "root.txt"), "root file content", 0o644)
	writeFile(t, filepath.Join(root, "big.bin"), string(bytes.Repeat([]byte("ABCDEFGHIJKLMNOP"), 20000)), 0o644)
	writeFile(t, filepath.Join(root, "sub", "mid.txt"), "middle file content", 0o600)
	writeFile(t, filepath.Join(root, "sub", "deep", "leaf.txt"), "leaf file content", 0o644)
	require.NoError(t, os.Symlink("root.txt", filepath.Join(root, "link.txt")))
}

// requireSameTree fails the test if Diff reports anything.
func requireSameTree(t *testing.T, src, dst string, opts DiffOptions) {
	t.Helper()
	diffs, err := Diff(context.Background(), src, dst, opts)
	require.NoError(t, err)
	require.Empty(t, diffs)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func lstatMode(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Lstat(path)
	require.NoError(t, err)
	return info.Mode()
}

// collectEvents returns a buffered channel and a function that closes it
// and returns everything received.
func collectEvents() (chan event.Event, func() []event.Event) {
	ch := make(chan event.Event, 1024)
	return ch, func() []event.Event {
		close(ch)
		var out []event.Event
		for ev := range ch {
			out = append(out, ev)
		}
		return out
	}
}
