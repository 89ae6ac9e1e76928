package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds the resolved server configuration.
type ServerConfig struct {
	TCPPort         int
	WSPort          int // 0 = websocket transport disabled
	MetricsPort     int // 0 = metrics endpoint disabled
	CredentialsPath string
	MaxLineLength   int
	ServerName      string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		TCPPort:         12345,
		WSPort:          8080,
		MetricsPort:     9090,
		CredentialsPath: "users.txt",
		MaxLineLength:   1024,
		ServerName:      "lanchat server",
	}
}

// TOMLConfig represents the structure of the config file.
type TOMLConfig struct {
	Server ServerSection `toml:"server"`
	Limits LimitsSection `toml:"limits"`
}

type ServerSection struct {
	TCPPort         int    `toml:"tcp_port"`
	WSPort          int    `toml:"ws_port"`
	MetricsPort     int    `toml:"metrics_port"`
	CredentialsPath string `toml:"credentials_path"`
	ServerName      string `toml:"server_name"`
}

type LimitsSection struct {
	MaxLineLength int `toml:"max_line_length"`
}

// DefaultTOMLConfig returns the default file-level configuration.
func DefaultTOMLConfig() TOMLConfig {
	def := DefaultConfig()
	return TOMLConfig{
		Server: ServerSection{
			TCPPort:         def.TCPPort,
			WSPort:          def.WSPort,
			MetricsPort:     def.MetricsPort,
			CredentialsPath: def.CredentialsPath,
			ServerName:      def.ServerName,
		},
		Limits: LimitsSection{
			MaxLineLength: def.MaxLineLength,
		},
	}
}

// LoadConfig loads configuration from a TOML file, writes a documented
// default file when none exists, and applies environment variable overrides.
func LoadConfig(path string) (TOMLConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		config := DefaultTOMLConfig()
		// Best effort: if the default file can't be written we still run
		// with defaults.
		_ = writeDefaultConfig(path)
		return applyEnvOverrides(config), nil
	}

	var config TOMLConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return TOMLConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyEnvOverrides(config), nil
}

// applyEnvOverrides applies environment variable overrides following the
// pattern LANCHAT_SECTION_KEY, e.g. LANCHAT_SERVER_TCP_PORT=4000.
func applyEnvOverrides(config TOMLConfig) TOMLConfig {
	if val := os.Getenv("LANCHAT_SERVER_TCP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Server.TCPPort = port
		}
	}
	if val := os.Getenv("LANCHAT_SERVER_WS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Server.WSPort = port
		}
	}
	if val := os.Getenv("LANCHAT_SERVER_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Server.MetricsPort = port
		}
	}
	if val := os.Getenv("LANCHAT_SERVER_CREDENTIALS_PATH"); val != "" {
		config.Server.CredentialsPath = val
	}
	if val := os.Getenv("LANCHAT_SERVER_SERVER_NAME"); val != "" {
		config.Server.ServerName = val
	}
	if val := os.Getenv("LANCHAT_LIMITS_MAX_LINE_LENGTH"); val != "" {
		if length, err := strconv.Atoi(val); err == nil {
			config.Limits.MaxLineLength = length
		}
	}
	return config
}

// ToServerConfig converts TOMLConfig to ServerConfig, filling gaps with
// defaults so partial config files behave sensibly.
func (c *TOMLConfig) ToServerConfig() ServerConfig {
	cfg := DefaultConfig()

	if c.Server.TCPPort != 0 {
		cfg.TCPPort = c.Server.TCPPort
	}
	cfg.WSPort = c.Server.WSPort
	cfg.MetricsPort = c.Server.MetricsPort
	if c.Server.CredentialsPath != "" {
		cfg.CredentialsPath = c.Server.CredentialsPath
	}
	if c.Server.ServerName != "" {
		cfg.ServerName = c.Server.ServerName
	}
	if c.Limits.MaxLineLength != 0 {
		cfg.MaxLineLength = c.Limits.MaxLineLength
	}

	return cfg
}

// writeDefaultConfig writes the documented default config file.
func writeDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	content := `# lanchat server configuration
# This file was auto-generated with default values.
# Restart the server for changes to take effect.
#
# Environment variables can override these settings:
# LANCHAT_SECTION_KEY (e.g. LANCHAT_SERVER_TCP_PORT=4000)

[server]
# Port for plain TCP clients
tcp_port = 12345

# Port for the websocket endpoint (/ws). Set to 0 to disable.
ws_port = 8080

# Port for the internal metrics endpoint (/metrics, /health).
# Never expose this publicly. Set to 0 to disable.
metrics_port = 9090

# Path to the credential file (one "username:password" per line;
# the password field may also hold a bcrypt hash)
credentials_path = "users.txt"

# Display name used in startup logs
server_name = "lanchat server"

[limits]
# Maximum length of one command line in bytes
max_line_length = 1024
`

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
