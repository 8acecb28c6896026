package config

import "time"

// DefaultListURL is the canonical location of the published list.
const DefaultListURL = "https://publicsuffix.org/list/public_suffix_list.dat"

// Config represents the top-level configuration structure.
type Config struct {
	Server          ServerConfig  `yaml:"server"`
	Sources         []Source      `yaml:"sources"`
	DataDir         string        `yaml:"data_dir,omitempty"`         // Directory for cached lists
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"` // How often remote lists are re-fetched
	ICANNOnly       bool          `yaml:"icann_only,omitempty"`       // Drop rules from the PRIVATE DOMAINS section
}

// ServerConfig holds query-server settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"` // e.g., ":8080"
}

// Source represents a single source of suffix rules.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url,omitempty"`  // Remote URL
	Path string `yaml:"path,omitempty"` // Local file path
}

// Default returns a configuration pointing at the published list.
func Default() *Config {
	return &Config{
		Server: ServerConfig{ListenAddr: ":8080"},
		Sources: []Source{
			{Name: "publicsuffix.org", URL: DefaultListURL},
		},
		DataDir: "data",
	}
}
