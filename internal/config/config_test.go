package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Sources{Getenv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 10*time.Second, cfg.Web.RequestTimeout.Duration())
}

func TestLoad_JSONFileOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "ornate.json", `{
		"api": {"addr": ":9000", "s3": {"bucket": "photos"}},
		"web": {"filter_mode": "remote", "request_timeout": "3s"}
	}`)

	cfg, err := Load(Sources{File: path, Getenv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.API.Addr)
	assert.Equal(t, "photos", cfg.API.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.API.S3.Region, "unset fields keep defaults")
	assert.Equal(t, "ornate.sqlite3", cfg.API.DBPath)
	assert.Equal(t, "remote", cfg.Web.FilterMode)
	assert.Equal(t, 3*time.Second, cfg.Web.RequestTimeout.Duration())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(Sources{File: filepath.Join(t.TempDir(), "nope.json"), Getenv: noEnv})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "ornate.json", `{"web": {"addr": ":1111"}}`)

	cfg, err := Load(Sources{
		File:   path,
		Getenv: envMap(map[string]string{"ORNATE_WEB_ADDR": ":2222", "ORNATE_REQUEST_TIMEOUT": "250ms"}),
	})
	require.NoError(t, err)
	assert.Equal(t, ":2222", cfg.Web.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Web.RequestTimeout.Duration())
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "ORNATE_API_URL=\nORNATE_LOCAL_DB=/tmp/local.db\nORNATE_S3_BUCKET=from-dotenv\n")

	cfg, err := Load(Sources{
		EnvFile: envFile,
		Getenv:  envMap(map[string]string{"ORNATE_S3_BUCKET": "from-env"}),
	})
	require.NoError(t, err)
	assert.Empty(t, cfg.Web.CollaboratorURL, "empty value selects the local collection")
	assert.Equal(t, "/tmp/local.db", cfg.Web.LocalDBPath)
	assert.Equal(t, "from-env", cfg.API.S3.Bucket, "process environment wins over .env")
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(Sources{EnvFile: filepath.Join(t.TempDir(), ".env"), Getenv: noEnv})
	assert.NoError(t, err)
}

func TestLoad_ChangedFlagsWin(t *testing.T) {
	fs := pflag.NewFlagSet("web", pflag.ContinueOnError)
	AddGlobalFlags(fs)
	AddWebFlags(fs)
	require.NoError(t, fs.Parse([]string{"--filter-mode", "remote", "--timeout", "2s"}))

	cfg, err := Load(Sources{
		Flags:  fs,
		Getenv: envMap(map[string]string{"ORNATE_FILTER_MODE": "local", "ORNATE_WEB_ADDR": ":3333"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.Web.FilterMode)
	assert.Equal(t, 2*time.Second, cfg.Web.RequestTimeout.Duration())
	assert.Equal(t, ":3333", cfg.Web.Addr, "unchanged flags do not override the environment")
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"filter mode":  {"ORNATE_FILTER_MODE": "server"},
		"timeout":      {"ORNATE_REQUEST_TIMEOUT": "soon"},
		"zero timeout": {"ORNATE_REQUEST_TIMEOUT": "0s"},
		"url scheme":   {"ORNATE_API_URL": "localhost:8000"},
	}
	for name, env := range tests {
		_, err := Load(Sources{Getenv: envMap(env)})
		assert.Error(t, err, name)
	}
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"5s"`, string(out))
}
