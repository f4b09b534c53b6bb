package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsTolerant(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &File{}, f)
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ehlit.yaml")
	content := "stdlib_path: /opt/ehlit/stdlib\nsearch_paths:\n  - ./vendor\n  - ./lib\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ehlit/stdlib", f.StdlibPath)
	assert.Equal(t, []string{"./vendor", "./lib"}, f.SearchPaths)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ehlit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stdlib_path: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
