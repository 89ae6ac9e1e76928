package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 12345, cfg.TCPPort)
	assert.Equal(t, "users.txt", cfg.CredentialsPath)
	assert.Equal(t, 1024, cfg.MaxLineLength)
}

func TestLoadConfigWritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanchat.toml")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12345, config.Server.TCPPort)

	// The default file was written and parses back to the same values.
	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, reloaded)
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanchat.toml")
	content := `
[server]
tcp_port = 4000
credentials_path = "/etc/lanchat/users.txt"

[limits]
max_line_length = 2048
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	cfg := config.ToServerConfig()
	assert.Equal(t, 4000, cfg.TCPPort)
	assert.Equal(t, "/etc/lanchat/users.txt", cfg.CredentialsPath)
	assert.Equal(t, 2048, cfg.MaxLineLength)
	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultConfig().ServerName, cfg.ServerName)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanchat.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nnope"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LANCHAT_SERVER_TCP_PORT", "5555")
	t.Setenv("LANCHAT_LIMITS_MAX_LINE_LENGTH", "512")
	t.Setenv("LANCHAT_SERVER_CREDENTIALS_PATH", "/tmp/users.txt")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "lanchat.toml"))
	require.NoError(t, err)

	cfg := config.ToServerConfig()
	assert.Equal(t, 5555, cfg.TCPPort)
	assert.Equal(t, 512, cfg.MaxLineLength)
	assert.Equal(t, "/tmp/users.txt", cfg.CredentialsPath)
}
