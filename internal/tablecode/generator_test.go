package tablecode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	gen := NewQRGenerator("http://localhost:3000/tables", dir)

	url, err := gen.Generate("T1")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/tables/T1", url)

	info, err := os.Stat(filepath.Join(dir, "table-T1.png"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestQRGenerator_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "codes")
	gen := NewQRGenerator("http://localhost:3000/tables", dir)

	_, err := gen.Generate("T2")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "table-T2.png"))
	require.NoError(t, err)
}
