// Package file loads worksearch configuration from a TOML file and
// watches it for changes so search tuning can be reloaded without a
// restart.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file name inside the config directory.
const DefaultFileName = "config.toml"

// Config is the full worksearch configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Search     SearchConfig     `toml:"search"`
	Storage    StorageConfig    `toml:"storage"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Connectors ConnectorsConfig `toml:"connectors"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// SearchConfig holds the orchestrator tuning. This section is hot
// reloadable; the rest of the file is read once at startup.
type SearchConfig struct {
	// AdapterTimeoutMs bounds each internal source adapter call.
	AdapterTimeoutMs int `toml:"adapter_timeout_ms"`

	// ConnectorTimeoutMs bounds the connectors adapter independently.
	ConnectorTimeoutMs int `toml:"connector_timeout_ms"`
}

// AdapterTimeout returns the adapter timeout as a duration.
func (s SearchConfig) AdapterTimeout() time.Duration {
	return time.Duration(s.AdapterTimeoutMs) * time.Millisecond
}

// ConnectorTimeout returns the connector timeout as a duration.
func (s SearchConfig) ConnectorTimeout() time.Duration {
	return time.Duration(s.ConnectorTimeoutMs) * time.Millisecond
}

// StorageConfig holds data directories.
type StorageConfig struct {
	// DataDir holds the SQLite database. Empty means in-memory records.
	DataDir string `toml:"data_dir"`

	// VectorDir holds the persisted vector index. Empty keeps vectors
	// in memory only.
	VectorDir string `toml:"vector_dir"`
}

// EmbeddingConfig holds the embedding service settings. An empty model
// disables the semantic path entirely.
type EmbeddingConfig struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// Enabled reports whether the semantic path should be wired at all.
func (e EmbeddingConfig) Enabled() bool {
	return e.Model != ""
}

// ConnectorsConfig lists the external systems to federate to.
type ConnectorsConfig struct {
	Remote []RemoteConnectorConfig `toml:"remote"`
	GitHub GitHubConnectorConfig   `toml:"github"`
	Drive  DriveConnectorConfig    `toml:"drive"`
}

// RemoteConnectorConfig configures one generic REST federation endpoint.
type RemoteConnectorConfig struct {
	Name              string  `toml:"name"`
	Endpoint          string  `toml:"endpoint"`
	APIKey            string  `toml:"api_key"`
	TimeoutMs         int     `toml:"timeout_ms"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BurstSize         int     `toml:"burst_size"`
}

// GitHubConnectorConfig configures the GitHub issue search connector.
type GitHubConnectorConfig struct {
	Token string `toml:"token"`
	Org   string `toml:"org"`
	Repo  string `toml:"repo"`
}

// Enabled reports whether the GitHub connector should be wired.
func (g GitHubConnectorConfig) Enabled() bool {
	return g.Token != ""
}

// DriveConnectorConfig configures the Google Drive connector.
type DriveConnectorConfig struct {
	Token string `toml:"token"`
}

// Enabled reports whether the Drive connector should be wired.
func (d DriveConnectorConfig) Enabled() bool {
	return d.Token != ""
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Search: SearchConfig{
			AdapterTimeoutMs:   2000,
			ConnectorTimeoutMs: 4000,
		},
	}
}

// DefaultPath returns ~/.worksearch/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".worksearch", DefaultFileName), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
