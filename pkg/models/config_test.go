package models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkers(t *testing.T) {
	c := &RunConfig{Threads: 1000}
	assert.Equal(t, 5, c.Workers(5))
	assert.Equal(t, MaxThreads, c.Workers(1000))

	c.Threads = 3
	assert.Equal(t, 3, c.Workers(200))
	assert.Equal(t, 0, c.Workers(0))
}

func TestValidateRunIgnoresWordlist(t *testing.T) {
	c := &RunConfig{Domain: "example.com", Threads: 4, Timeout: time.Second}
	assert.NoError(t, c.ValidateRun())
	assert.Error(t, c.Validate())

	c.Threads = 0
	err := c.ValidateRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threads must be > 0")
}

func TestSaveAndLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles", "lab.yaml")
	want := DefaultRunConfig()
	want.Timeout = 5 * time.Second
	want.Resolvers = []string{"192.0.2.53:53"}
	require.NoError(t, want.Save(path))

	got := DefaultRunConfig()
	require.NoError(t, got.Load(path))
	assert.Equal(t, want, got)
}
