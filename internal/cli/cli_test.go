package cli

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	t.Setenv("LEDGER_CONFIG_DIR", "")
	t.Setenv("LEDGER_DATA_DIR", "")
	t.Setenv("LEDGER_BACKEND", "")
	dir := t.TempDir()
	return env{configDir: filepath.Join(dir, "config"), dataDir: filepath.Join(dir, "data")}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	return m
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, "Ledger initialized successfully")

	_, err := os.Stat(filepath.Join(e.dataDir, "ledger.db"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, e.dataDir, cfg.DataDir)

	// Idempotent.
	e.mustRun(t, "init")
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.True(t, strings.HasPrefix(out, "ledger v"))
	assert.Contains(t, out, modulePath)
}

func TestEntityCommands(t *testing.T) {
	e := newEnv(t)

	user := decode(t, e.mustRun(t, "create", "users", "login=alice", "activated=true"))
	assert.Equal(t, "alice", user["login"])
	assert.Equal(t, true, user["activated"])
	assert.Equal(t, 1.0, user["id"])

	data := decode(t, e.mustRun(t, "create", "resource-data", "gold=10.5", "registerUser=1"))
	assert.Equal(t, 10.5, data["gold"])
	assert.Nil(t, data["wood"])
	reg, ok := data["registerUser"].(map[string]any)
	require.True(t, ok, "registerUser is resolved: %v", data)
	assert.Equal(t, "alice", reg["login"])

	e.mustRun(t, "create", "resource-data", "wood=2")

	got := decode(t, e.mustRun(t, "patch", "resource-data", "1", "fer=3"))
	assert.Equal(t, 10.5, got["gold"])
	assert.Equal(t, 3.0, got["fer"])

	got = decode(t, e.mustRun(t, "get", "resource-data", "2"))
	assert.Nil(t, got["registerUser"])

	var all []map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "list", "resource-data", "--sort", "id,desc")), &all))
	require.Len(t, all, 2)
	assert.Equal(t, 2.0, all[0]["id"])

	out := e.mustRun(t, "list", "resource-data", "--orphans", "registerUser", "--stream")
	lines := 0
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		assert.Equal(t, 2.0, decode(t, sc.Text())["id"])
		lines++
	}
	assert.Equal(t, 1, lines)

	out = e.mustRun(t, "list", "resource-data", "--by", "registerUser=1", "--size", "1")
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all, 1)
	assert.Equal(t, 1.0, all[0]["id"])

	_, err := e.run(t, "delete", "users", "1")
	assert.ErrorIs(t, err, types.ErrConflict)

	e.mustRun(t, "delete", "resource-data", "1")
	e.mustRun(t, "delete", "resource-data", "1")
	_, err = e.run(t, "get", "resource-data", "1")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown kind", []string{"get", "invoices", "1"}, exitUserError},
		{"bad id", []string{"get", "users", "abc"}, exitUserError},
		{"missing entity", []string{"get", "users", "7"}, exitUserError},
		{"unknown column", []string{"create", "users", "nick=x"}, exitUserError},
		{"bad value", []string{"create", "resource-got", "gold=lots"}, exitUserError},
		{"bad assignment", []string{"create", "users", "login"}, exitUserError},
		{"bad sort", []string{"list", "users", "--sort", "login,sideways"}, exitUserError},
		{"unknown association", []string{"list", "users", "--orphans", "client"}, exitUserError},
		{"page without size", []string{"list", "users", "--page", "2"}, exitUserError},
		{"unknown backend", []string{"--backend", "mysql", "list", "users"}, exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err), "%v", err)
		})
	}

	assert.Equal(t, exitSysError, exitCode(errors.New("disk on fire")))
}

func TestLoadConfigEnv(t *testing.T) {
	e := newEnv(t)
	t.Setenv("LEDGER_LOG_LEVEL", "debug")
	t.Setenv("LEDGER_SKIP_FOREIGN_KEYS", "true")

	a := &app{flags: rootFlags{configDir: e.configDir, dataDir: e.dataDir}}
	cfg, err := a.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.SkipForeignKeys)
	assert.Equal(t, e.dataDir, cfg.DataDir)

	a.flags.logLevel = "warn"
	cfg, err = a.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "flags win over the environment")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		text    string
		want    int64
		wantErr bool
	}{
		{text: "7", want: 7},
		{text: "010", want: 10},
		{text: " 12 ", want: 12},
		{text: "0x0A", wantErr: true},
		{text: "1_0", wantErr: true},
		{text: "2.9", wantErr: true},
		{text: "9.7", wantErr: true},
		{text: "0", wantErr: true},
		{text: "-4", wantErr: true},
		{text: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := parseID(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
