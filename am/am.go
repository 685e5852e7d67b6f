// Package am ("I am") holds the schemagen configuration.
//
// Configuration is read with viper from TOML files and SCHEMAGEN_* environment
// variables, in increasing precedence: built-in defaults, user file
// (~/.schemagen/schemagen.toml), project file (schemagen.toml, searched upward
// from the working directory), environment.
package am

// Config represents the schemagen configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator" json:"generator"`
	Output    OutputConfig    `mapstructure:"output" toml:"output" json:"output"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log"`
}

// GeneratorConfig configures the resolution engine
type GeneratorConfig struct {
	// Classifier rule order: "legacy" (Record before Map-like) or "map_first"
	Classification string `mapstructure:"classification" toml:"classification" json:"classification"`

	// Wrap field types when the standard nullable keyword is set (default: false)
	HonorCallerNullable bool `mapstructure:"honor_caller_nullable" toml:"honor_caller_nullable" json:"honor_caller_nullable"`

	// Composition keywords suppressing constraints: "all" (legacy) or "any"
	ConstraintSuppression string `mapstructure:"constraint_suppression" toml:"constraint_suppression" json:"constraint_suppression"`

	// Vendor extension read as the nullable overlay (default: x-nullable)
	NullableExtension string `mapstructure:"nullable_extension" toml:"nullable_extension" json:"nullable_extension"`

	// Suffixes for synthetic type names
	UnionMemberSuffix    string `mapstructure:"union_member_suffix" toml:"union_member_suffix" json:"union_member_suffix"`
	ArrayItemSuffix      string `mapstructure:"array_item_suffix" toml:"array_item_suffix" json:"array_item_suffix"`
	MapValueSuffix       string `mapstructure:"map_value_suffix" toml:"map_value_suffix" json:"map_value_suffix"`
	MessagePayloadSuffix string `mapstructure:"message_payload_suffix" toml:"message_payload_suffix" json:"message_payload_suffix"`
}

// OutputConfig configures where and how the registry dump is written
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format" json:"format"` // json or yaml
	Path   string `mapstructure:"path" toml:"path" json:"path"`       // empty = stdout
}

// LogConfig configures the logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" json:"verbosity"` // 0 warn, 1 info, 2+ debug
}

// Accepted enum values
const (
	ClassificationLegacy   = "legacy"
	ClassificationMapFirst = "map_first"

	SuppressionAll = "all"
	SuppressionAny = "any"

	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config file names
const (
	ConfigFileName = "schemagen.toml"
	UserConfigDir  = ".schemagen"
	EnvPrefix      = "SCHEMAGEN"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
