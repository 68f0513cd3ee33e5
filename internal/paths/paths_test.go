package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoHome = errors.New("no home")

// onPlatform makes the platform lookups report goos, home and the user
// config directory for the rest of the test.
func onPlatform(t *testing.T, goos, home, userConfig string) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.goos = goos
	platformDir.homeDir = func() (string, error) {
		if home == "" {
			return "", errNoHome
		}
		return home, nil
	}
	platformDir.userConfigDir = func() (string, error) {
		if userConfig == "" {
			return "", errNoHome
		}
		return userConfig, nil
	}
}

func TestDefaultDirs(t *testing.T) {
	tests := []struct {
		name                 string
		goos                 string
		xdgConfig, xdgData   string
		wantConfig, wantData string
	}{
		{
			name:       "linux without xdg",
			goos:       "linux",
			wantConfig: "/home/ana/.config/ledger",
			wantData:   "/home/ana/.local/share/ledger",
		},
		{
			name:       "linux with xdg",
			goos:       "linux",
			xdgConfig:  "/xdg/cfg",
			xdgData:    "/xdg/data",
			wantConfig: "/xdg/cfg/ledger",
			wantData:   "/xdg/data/ledger",
		},
		{
			name:       "darwin ignores xdg",
			goos:       "darwin",
			xdgConfig:  "/xdg/cfg",
			wantConfig: "/Users/ana/Library/Application Support/ledger",
			wantData:   "/Users/ana/Library/Application Support/ledger",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			onPlatform(t, tt.goos, "/home/ana", "/Users/ana/Library/Application Support")
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)
			t.Setenv("XDG_DATA_HOME", tt.xdgData)

			cfg, err := DefaultConfigDir()
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.wantConfig), cfg)

			data, err := DefaultDataDir()
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.wantData), data)
		})
	}
}

func TestDefaultDirs_LookupFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	onPlatform(t, "linux", "", "")
	_, err := DefaultConfigDir()
	assert.ErrorIs(t, err, errNoHome)
	_, err = DefaultDataDir()
	assert.ErrorIs(t, err, errNoHome)

	onPlatform(t, "windows", "", "")
	_, err = DefaultConfigDir()
	assert.ErrorIs(t, err, errNoHome)
}

func TestResolveConfigDir(t *testing.T) {
	onPlatform(t, "linux", "/home/ana", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		flag, env string
		want      string
	}{
		{flag: "/flag", env: "/env", want: "/flag"},
		{env: "/env", want: "/env"},
		{env: "rel/env", want: filepath.Join(cwd, "rel", "env")},
		{flag: "rel/flag", want: filepath.Join(cwd, "rel", "flag")},
		{want: "/home/ana/.config/ledger"},
	}
	for _, tt := range tests {
		t.Setenv(EnvConfigDir, tt.env)
		got, err := ResolveConfigDir(tt.flag)
		require.NoError(t, err)
		assert.Equal(t, filepath.FromSlash(tt.want), got, "flag=%q env=%q", tt.flag, tt.env)
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		flag, env, config string
		want              string
	}{
		{flag: "/flag", env: "/env", config: "/cfg", want: "/flag"},
		{env: "/env", config: "/cfg", want: "/env"},
		{config: "/cfg", want: "/cfg"},
		{config: "rel/cfg", want: filepath.Join(cwd, "rel", "cfg")},
		{want: filepath.Join(cwd, DefaultDataDirName)},
	}
	for _, tt := range tests {
		t.Setenv(EnvDataDir, tt.env)
		got, err := ResolveDataDir(tt.flag, tt.config)
		require.NoError(t, err)
		assert.Equal(t, filepath.FromSlash(tt.want), got, "flag=%q env=%q config=%q", tt.flag, tt.env, tt.config)
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, filepath.Join("cfg", ConfigFileName), ConfigFile("cfg"))
}
