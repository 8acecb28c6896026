package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager handles thread-safe configuration access and updates.
type Manager struct {
	mu         sync.RWMutex
	current    *Config
	configPath string
}

// NewManager creates a new configuration manager.
func NewManager(path string) *Manager {
	return &Manager{
		configPath: path,
		current:    Default(),
	}
}

// Load reads the configuration file from disk and updates the current
// state. Missing fields keep their defaults.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newConfig := Default()
	if err := yaml.Unmarshal(data, newConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(newConfig.Sources) == 0 {
		newConfig.Sources = Default().Sources
	}

	m.mu.Lock()
	m.current = newConfig
	m.mu.Unlock()

	return nil
}

// Get returns the current configuration safely.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
