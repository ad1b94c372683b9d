package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bl4ck0w1/subforce/internal/engine"
	"github.com/bl4ck0w1/subforce/pkg/models"
)

func TestTargetDomain(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		url     string
		want    string
		wantErr bool
	}{
		{name: "positional", args: []string{"Example.COM"}, want: "example.com"},
		{name: "url wins", args: []string{"other.org"}, url: "https://www.example.com:8443/login", want: "example.com"},
		{name: "bare url", url: "example.com/path", want: "example.com"},
		{name: "nothing", wantErr: true},
		{name: "bad domain", args: []string{"exa mple.com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := targetDomain(tt.args, tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := profilePath("work")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".subforce", "work.yaml"), p)

	p, err = profilePath("custom.yml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yml", p)

	explicit := filepath.Join(home, "profiles", "scan")
	p, err = profilePath(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, p)
}

func TestConfigureInitAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	cmd := NewConfigureCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"init", "lab"})
	require.NoError(t, cmd.Execute())

	path := filepath.Join(home, ".subforce", "lab.yaml")
	_, err := os.Stat(path)
	require.NoError(t, err)

	cmd = NewConfigureCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"init", "lab"})
	assert.Error(t, cmd.Execute())

	out.Reset()
	cmd = NewConfigureCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"show", "lab"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "threads: 10")
	assert.Contains(t, out.String(), "timeout: 2s")
}

func TestBuildRunConfigFromProfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(viper.Reset)

	profile := models.DefaultRunConfig()
	profile.Threads = 200
	profile.Timeout = 5 * time.Second
	profile.Wordlist = "big.txt"
	require.NoError(t, profile.Save(filepath.Join(home, ".subforce", "deep.yaml")))

	viper.Reset()
	viper.Set("scan.profile", "deep")
	cfg, err := buildRunConfig([]string{"example.com"})
	require.NoError(t, err)
	assert.Equal(t, "example.com", cfg.Domain)
	assert.Equal(t, models.MaxThreads, cfg.Threads)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "big.txt", cfg.Wordlist)

	viper.Set("scan.threads", 3)
	cfg, err = buildRunConfig([]string{"example.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Threads)
}

func TestBuildRunConfigWithoutTarget(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	_, err := buildRunConfig(nil)
	var cfgErr *engine.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
