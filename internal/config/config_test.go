package config_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/pacer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_YAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, ".", "custom.yaml", `
log_level: debug
time_scale: 0.5
seed: 42
store:
  kind: redis
  redis_addr: cache:6379
  ttl: 1h
mcp:
  transport: sse
  port: 9000
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.5, cfg.TimeScale)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, config.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, "pacer:", cfg.Store.Prefix, "unset fields keep defaults")
	assert.Equal(t, config.TransportSSE, cfg.MCP.Transport)
	assert.Equal(t, 9000, cfg.MCP.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_JSON(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, ".", "pacer.json", `{"workspace_root": "/srv/app", "http": {"addr": ":9999"}}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/app", cfg.WorkspaceRoot)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err, "the default file is optional")
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load("nope.yaml")
	assert.Error(t, err, "an explicit file must exist")
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, ".", config.DefaultPath, "log_level: warn\ntime_scale: 2\n")
	writeFile(t, ".", ".env", "PACER_TIME_SCALE=0.25\nPACER_LOG_LEVEL=error\n")
	t.Setenv("PACER_LOG_LEVEL", "debug")
	t.Cleanup(func() { os.Unsetenv("PACER_TIME_SCALE") })

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.TimeScale, ".env overrides the file")
	assert.Equal(t, "debug", cfg.LogLevel, "the environment overrides .env")
}

func TestApplyEnv_Errors(t *testing.T) {
	env := map[string]string{
		"PACER_SEED":      "-1",
		"PACER_STORE_TTL": "soon",
		"PACER_MCP_PORT":  "8082",
	}
	cfg := config.Default()

	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PACER_SEED")
	assert.Contains(t, err.Error(), "PACER_STORE_TTL")
	assert.Equal(t, 8082, cfg.MCP.Port)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.TimeScale = -1
	cfg.Store.Kind = "s3"
	cfg.MCP.Transport = "carrier-pigeon"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time_scale")
	assert.Contains(t, err.Error(), `"s3"`)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestStoreConfig_Keys(t *testing.T) {
	var s config.StoreConfig
	active, fallback, err := s.Keys()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, fallback)

	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{2}, 32))
	s = config.StoreConfig{EncryptionKey: key, FallbackKeys: []string{old}}
	active, fallback, err = s.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	require.Len(t, fallback, 1)
	assert.Equal(t, byte(2), fallback[0][0])

	s.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
	_, _, err = s.Keys()
	assert.ErrorContains(t, err, "store.encryption_key")
}

func TestValidate_StorePrivacy(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Redact = []string{"("}
	cfg.Store.EncryptionKey = "not base64!"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.redact")
	assert.Contains(t, err.Error(), "store.encryption_key")
}
