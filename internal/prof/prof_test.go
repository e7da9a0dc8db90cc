package prof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iconci/internal/fault"
)

func TestStartDisabled(t *testing.T) {
	s, err := Start("", "")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, s.Stop())
}

func TestCPUAndHeapProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu, mem := filepath.Join(dir, "cpu.pprof"), filepath.Join(dir, "mem.pprof")

	s, err := Start(cpu, mem)
	require.NoError(t, err)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	for _, path := range []string{cpu, mem} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}
}

func TestStartUnwritablePath(t *testing.T) {
	_, err := Start(filepath.Join(t.TempDir(), "missing", "cpu.pprof"), "")
	require.Error(t, err)
	assert.Equal(t, fault.IO, fault.KindOf(err))
}
