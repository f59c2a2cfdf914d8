package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/vec/alloc"
	"github.com/pavanmanishd/vec/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	for _, a := range []string{"heap", "arena", "mmap"} {
		t.Run(a, func(t *testing.T) {
			out, _, err := execute(t, "run", "--allocator", a, "--log-level", "error")
			require.NoError(t, err)
			assert.Contains(t, out, "length: 5\ncapacity: 8\n")
			assert.Contains(t, out, "get(0): 1\n")
			assert.Contains(t, out, "get(3): 4\n")
			assert.Contains(t, out, "get(5): none\n")
			assert.Contains(t, out, "bytes allocated: 64\n")
		})
	}
}

func TestRunEmpty(t *testing.T) {
	out, _, err := execute(t, "run", "--count", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "length: 0\ncapacity: 0\n")
	assert.Contains(t, out, "get(0): none\n")
}

func TestRunLogsGrowth(t *testing.T) {
	_, logs, err := execute(t, "run", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"vec: grew"`)
	assert.Contains(t, logs, `"msg":"vecdemo: filled"`)
}

func TestGrowth(t *testing.T) {
	out, _, err := execute(t, "growth", "--count", "17", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"PUSH", "CAPACITY", "BYTES", "RELOCATIONS"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "4", "32", "0"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"5", "8", "64", "1"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"9", "16", "128", "2"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"17", "32", "256", "3"}, strings.Fields(lines[4]))
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecdemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 9\nallocator: arena\nlookups: [8, 9]\nlog:\n  level: error\n"), 0o600))

	out, _, err := execute(t, "run", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "length: 9\ncapacity: 16\n")
	assert.Contains(t, out, "get(8): 9\n")
	assert.Contains(t, out, "get(9): none\n")

	// Flags override the file.
	out, _, err = execute(t, "run", "--config", path, "--count", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "length: 3\ncapacity: 4\n")
}

func TestInvalidFlags(t *testing.T) {
	_, _, err := execute(t, "run", "--allocator", "slab")
	assert.Error(t, err)

	_, _, err = execute(t, "run", "--log-level", "loud")
	assert.Error(t, err)
}

func TestCloseAllocatorError(t *testing.T) {
	errClose := errors.New("unmap failed")
	orig := openAllocator
	t.Cleanup(func() { openAllocator = orig })
	openAllocator = func(*config.Config) (alloc.Allocator, func() error, error) {
		return alloc.Heap{}, func() error { return errClose }, nil
	}

	out, logs, err := execute(t, "run", "--log-level", "error")
	require.ErrorIs(t, err, errClose)
	assert.Contains(t, out, "length: 5\ncapacity: 8\n")
	assert.Contains(t, logs, "vecdemo: close allocator")
}
