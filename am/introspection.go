package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.schemagen/schemagen.toml
	SourceProject     ConfigSource = "project"     // project schemagen.toml or --config
	SourceEnvironment ConfigSource = "environment" // SCHEMAGEN_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// ConfigSources maps dotted keys to the file that last set them.
// Populated while config files are merged.
var ConfigSources = make(map[string]SourceInfo)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

func trackFileSources(settings map[string]interface{}, prefix string, source ConfigSource, path string) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			trackFileSources(nested, fullKey, source, path)
			continue
		}
		ConfigSources[fullKey] = SourceInfo{Source: source, Path: path}
	}
}

// Describe flattens settings into sorted keys annotated with their source
func Describe(settings map[string]interface{}) []SettingInfo {
	var out []SettingInfo
	describe(settings, "", &out)
	return out
}

func describe(settings map[string]interface{}, prefix string, out *[]SettingInfo) {
	// Sort keys for deterministic iteration
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			describe(nested, fullKey, out)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[fullKey]; ok {
			info = si
		}

		// Environment variables override every file
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		*out = append(*out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}
