package hwpx

import (
	"os"
	"sync"
)

// Config contains the configuration options for the converter.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// TemplatePath is the default skeleton archive used when the caller does
	// not supply one explicitly.
	TemplatePath string
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		TemplatePath: "Skeleton.hwpx",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// HWPX_LOG_LEVEL
	if val := os.Getenv("HWPX_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// HWPX_TEMPLATE
	if val := os.Getenv("HWPX_TEMPLATE"); val != "" {
		config.TemplatePath = val
	}

	return config
}

// GetGlobalConfig returns the process-wide configuration, initializing it
// from the environment on first use.
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfigMutex.Lock()
		globalConfig = ConfigFromEnvironment()
		globalConfigMutex.Unlock()
	})
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()
	return globalConfig
}

// SetGlobalConfig replaces the process-wide configuration.
func SetGlobalConfig(config *Config) {
	configOnce.Do(func() {})
	globalConfigMutex.Lock()
	defer globalConfigMutex.Unlock()
	if config == nil {
		config = DefaultConfig()
	}
	globalConfig = config
}
