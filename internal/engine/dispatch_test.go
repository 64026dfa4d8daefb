package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every Kind must either be routed to a copier or rejected as unsupported.
// A new Kind added before numKinds without a dispatch case fails here.
func TestDispatch_CoversEveryKind(t *testing.T) {
	supported := map[Kind]bool{
		File:        true,
		Dir:         true,
		Symlink:     true,
		CharDevice:  true,
		BlockDevice: true,
	}
	unsupported := map[Kind]bool{
		Socket:  true,
		FIFO:    true,
		Unknown: true,
	}

	c := &copier{cfg: Options{}.normalize(), sched: sequential{}}
	dir := t.TempDir()

	for k := Kind(0); k < numKinds; k++ {
		t.Run(k.String(), func(t *testing.T) {
			require.True(t, supported[k] != unsupported[k], "kind %d must be classified exactly once", k)

			task := copyTask{
				src:     filepath.Join(dir, "missing-"+k.String()),
				dst:     filepath.Join(dir, "out-"+k.String()),
				srcStat: &EntryStat{Kind: k},
			}
			err := c.dispatch(context.Background(), task)
			require.Error(t, err, "the source does not exist")

			if unsupported[k] {
				assert.ErrorIs(t, err, ErrUnsupportedKind)
				assert.Contains(t, err.Error(), k.String())
			} else {
				assert.NotErrorIs(t, err, ErrUnsupportedKind)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", File.String())
	assert.Equal(t, "directory", Dir.String())
	assert.Equal(t, "socket", Socket.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "unknown", Kind(-1).String())
}
