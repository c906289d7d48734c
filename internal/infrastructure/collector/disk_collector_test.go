package collector

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCollectorCollect(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("disk stats are only checked on linux and darwin")
	}

	dir := t.TempDir()
	stats, err := NewDiskCollector(dir).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dir, stats.Path)
	assert.NotZero(t, stats.TotalBytes)
	assert.LessOrEqual(t, stats.FreeBytes, stats.TotalBytes)
	assert.GreaterOrEqual(t, stats.UsedPercent, 0.0)
	assert.LessOrEqual(t, stats.UsedPercent, 100.0)
}

func TestDiskCollectorMissingPath(t *testing.T) {
	_, err := NewDiskCollector(filepath.Join(t.TempDir(), "missing")).Collect(context.Background())
	assert.Error(t, err)
}
