package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/schemagen/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the schemagen configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path.
// Defaults and environment variables still apply; other config files do not.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	trackFileSources(v.AllSettings(), "", SourceProject, configPath)

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = make(map[string]SourceInfo)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)
	return v
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := newViper()

	// Manually merge configs in precedence order: user -> project -> env vars
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// FindProjectConfig searches for schemagen.toml by walking up the directory tree
// from dir. Returns the path to the first config file found, or empty string.
func FindProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			return ""
		}
		dir = parent
	}
}

// UserConfigPath returns ~/.schemagen/schemagen.toml, or empty string when
// the home directory is unknown
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, ConfigFileName)
}

// ConfigFilesUsed returns the config files merged into the active configuration,
// lowest precedence first
func ConfigFilesUsed() []string {
	var used []string
	for _, candidate := range configCandidates() {
		if _, err := os.Stat(candidate.path); err == nil {
			used = append(used, candidate.path)
		}
	}
	return used
}

type configCandidate struct {
	path   string
	source ConfigSource
}

func configCandidates() []configCandidate {
	var candidates []configCandidate
	if user := UserConfigPath(); user != "" {
		candidates = append(candidates, configCandidate{user, SourceUser})
	}
	if wd, err := os.Getwd(); err == nil {
		if project := FindProjectConfig(wd); project != "" {
			candidates = append(candidates, configCandidate{project, SourceProject})
		}
	}
	return candidates
}

// mergeConfigFiles manually merges configuration files in the correct precedence order
// Precedence (lowest to highest): user < project < env vars
func mergeConfigFiles(v *viper.Viper) {
	for _, candidate := range configCandidates() {
		if _, err := os.Stat(candidate.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(candidate.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		settings := tempViper.AllSettings()
		trackFileSources(settings, "", candidate.source, candidate.path)
		// Merge this config into the main viper instance
		if err := v.MergeConfigMap(settings); err != nil {
			continue
		}
	}
}
