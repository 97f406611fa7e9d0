package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// ProjectConfigFile is the name of the project-level config file.
	ProjectConfigFile = "biotdms.yaml"
	// UserConfigDir is the directory for user-level config.
	UserConfigDir = ".config/biotdms"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
	// EnvPrefix prefixes all environment overrides.
	EnvPrefix = "BIOTDMS_"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/biotdms/config.yaml)
// 3. Project config (biotdms.yaml in current or parent directories)
// 4. BIOTDMS_* environment variables
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	userConfigPath := l.userConfigPath()
	if userConfig, err := LoadFromFile(userConfigPath); err == nil {
		l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		config.Merge(userConfig)
	} else if !errors.Is(err, fs.ErrNotExist) {
		// LoadFromFile wraps the read error, so match with errors.Is.
		l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
	}

	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it
// doesn't exist.
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file.
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for biotdms.yaml in current and parent
// directories.
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// applyEnv overlays BIOTDMS_* environment variables onto config.
func (l *Loader) applyEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			} else {
				l.logger.Warn("Ignoring invalid boolean env override", slog.String("var", EnvPrefix+key), slog.String("value", v))
			}
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				l.logger.Warn("Ignoring invalid integer env override", slog.String("var", EnvPrefix+key), slog.String("value", v))
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			} else {
				l.logger.Warn("Ignoring invalid duration env override", slog.String("var", EnvPrefix+key), slog.String("value", v))
			}
		}
	}

	setString("ONTOLOGY_PATH", &config.Ontology.Path)
	setBool("ONTOLOGY_WATCH", &config.Ontology.Watch)

	setString("EMBEDDING_PROVIDER", &config.Embedding.Provider)
	setString("EMBEDDING_BASE_URL", &config.Embedding.BaseURL)
	setString("EMBEDDING_MODEL", &config.Embedding.Model)
	setString("EMBEDDING_API_KEY", &config.Embedding.APIKey)
	setInt("EMBEDDING_DIMENSIONS", &config.Embedding.Dimensions)
	setString("EMBEDDING_CACHE_DIR", &config.Embedding.CacheDir)
	setString("EMBEDDING_INDEX_PATH", &config.Embedding.IndexPath)
	setDuration("EMBEDDING_TIMEOUT", &config.Embedding.Timeout)

	setString("SERVER_ADDR", &config.Server.Addr)
	setDuration("SERVER_SHUTDOWN_TIMEOUT", &config.Server.ShutdownTimeout)
}
