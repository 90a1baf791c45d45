package pconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet(fl *Flags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fl.AddTo(flagSet)
	return flagSet
}

func TestLoadFallsBackToDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.RootPath)
	assert.Empty(t, cfg.DefaultOwner)
	assert.False(t, cfg.Verbose)
}

func TestLoadReadsExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prinbee.yaml")
	content := "root-path: " + filepath.Join(dir, "data") + "\nowner: alice\nverbose: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.RootPath)
	assert.Equal(t, "alice", cfg.DefaultOwner)
	assert.True(t, cfg.Verbose)
}

func TestLoadRejectsMissingExplicitConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestFlagsResolveOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prinbee.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root-path: "+filepath.Join(dir, "data")+"\n"), 0600))

	fl := NewFlags()
	flagSet := newTestFlagSet(fl)
	require.NoError(t, flagSet.Parse([]string{"--config", path, "--root-path", filepath.Join(dir, "override")}))

	cfg, err := fl.Resolve(flagSet)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "override"), cfg.RootPath)
}

func TestFlagsResolveBindsBoolFlagsThroughViper(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prinbee.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0600))

	fl := NewFlags()
	flagSet := newTestFlagSet(fl)
	require.NoError(t, flagSet.Parse([]string{"--config", path, "--debug"}))

	cfg, err := fl.Resolve(flagSet)
	require.NoError(t, err)
	assert.True(t, cfg.Debug, "an explicit --debug must win over the config file's debug: false")
}
