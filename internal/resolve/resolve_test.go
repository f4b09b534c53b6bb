package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFindsFileWithExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.eh"), []byte("module foo;"), 0644))

	p := &Paths{entries: []string{dir}}
	resolved, isDir, found := p.Resolve([]string{"foo"})
	assert.True(t, found)
	assert.False(t, isDir)
	assert.Equal(t, filepath.Join(dir, "foo.eh"), resolved)
}

func TestResolveFindsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pkg"), 0755))

	p := &Paths{entries: []string{dir}}
	resolved, isDir, found := p.Resolve([]string{"pkg"})
	assert.True(t, found)
	assert.True(t, isDir)
	assert.Equal(t, filepath.Join(dir, "pkg"), resolved)
}

func TestResolveNotFound(t *testing.T) {
	p := &Paths{entries: []string{t.TempDir()}}
	_, _, found := p.Resolve([]string{"nope"})
	assert.False(t, found)
}

func TestResolveSearchesInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "foo.eh"), []byte(""), 0644))

	p := &Paths{entries: []string{first, second}}
	resolved, _, found := p.Resolve([]string{"foo"})
	assert.True(t, found)
	assert.Equal(t, filepath.Join(second, "foo.eh"), resolved)
}

func TestReadSourceNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.eh")
	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("module a;")...)
	require.NoError(t, os.WriteFile(path, bom, 0644))

	out, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "module a;", string(out))
}
