package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitPath("/a/b/"))
	assert.Equal(t, []string{"a", "b"}, splitPath("/a//b"))
	assert.Equal(t, []string{"a"}, splitPath("/a/b/.."))
	assert.Empty(t, splitPath("/"))
}

func TestIsSubdir(t *testing.T) {
	tests := []struct {
		parent, child string
		want          bool
	}{
		{"/a", "/a", true},
		{"/a", "/a/b", true},
		{"/a/", "/a/b/c", true},
		{"/a/b", "/a", false},
		{"/a/b", "/a/bc", false},
		{"/ab", "/a/b", false},
		{"/", "/anything", true},
		{"/a/./b", "/a/b/c", true},
	}
	for _, tt := range tests {
		t.Run(tt.parent+"→"+tt.child, func(t *testing.T) {
			assert.Equal(t, tt.want, isSubdir(tt.parent, tt.child))
		})
	}
}

func TestIsSubdir_RelativeAgainstWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.True(t, isSubdir(wd, "child"))
	assert.True(t, isSubdir("sub", filepath.Join(wd, "sub", "x")))
}

func TestValidatePair_AbsentDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "a", 0o644)

	srcStat, destStat, err := validatePair(src, filepath.Join(dir, "b.txt"), Options{}.normalize())
	require.NoError(t, err)
	assert.Equal(t, File, srcStat.Kind)
	assert.Nil(t, destStat)
}

func TestValidatePair_FollowsWhenDereferencing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "target", "f"), "f", 0o644)
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(filepath.Join(dir, "target"), link))

	srcStat, _, err := validatePair(link, filepath.Join(dir, "out"), Options{}.normalize())
	require.NoError(t, err)
	assert.Equal(t, Symlink, srcStat.Kind)

	srcStat, _, err = validatePair(link, filepath.Join(dir, "out"), Options{Dereference: true}.normalize())
	require.NoError(t, err)
	assert.Equal(t, Dir, srcStat.Kind)
}

func TestCheckParentPaths_StopsAtSourceParent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	srcStat, err := Classify(src, true)
	require.NoError(t, err)

	assert.NoError(t, checkParentPaths(src, srcStat, filepath.Join(dir, "dst")))
	assert.NoError(t, checkParentPaths(src, srcStat, filepath.Join(dir, "x", "y", "dst")))
	assert.NoError(t, checkParentPaths(src, srcStat, "/definitely/not/here/dst"))
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	writeFile(t, file, "f", 0o640)
	link := filepath.Join(dir, "l")
	require.NoError(t, os.Symlink("f", link))

	st, err := Classify(file, false)
	require.NoError(t, err)
	assert.Equal(t, File, st.Kind)
	assert.Equal(t, os.FileMode(0o640), st.Mode.Perm())
	assert.NotZero(t, st.DevIno.Ino)

	st, err = Classify(link, false)
	require.NoError(t, err)
	assert.Equal(t, Symlink, st.Kind)

	st, err = Classify(link, true)
	require.NoError(t, err)
	assert.Equal(t, File, st.Kind)

	st, err = Classify(filepath.Join(dir, "missing"), false)
	require.NoError(t, err)
	assert.Nil(t, st)

	dangling := filepath.Join(dir, "dangling")
	require.NoError(t, os.Symlink("nowhere", dangling))
	st, err = Classify(dangling, true)
	require.NoError(t, err)
	assert.Nil(t, st)
}
