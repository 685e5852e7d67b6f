package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generator defaults keep legacy output compatibility
	v.SetDefault("generator.classification", ClassificationLegacy)
	v.SetDefault("generator.honor_caller_nullable", false)
	v.SetDefault("generator.constraint_suppression", SuppressionAll)
	v.SetDefault("generator.nullable_extension", "x-nullable")
	v.SetDefault("generator.union_member_suffix", "Option")
	v.SetDefault("generator.array_item_suffix", "Item")
	v.SetDefault("generator.map_value_suffix", "Value")
	v.SetDefault("generator.message_payload_suffix", "Payload")

	// Output defaults
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.path", "")

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars explicitly binds keys whose env names are not derived automatically
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("output.path", EnvPrefix+"_OUTPUT")
	v.BindEnv("log.verbosity", EnvPrefix+"_VERBOSITY")
}

// Defaults returns a configuration holding only the built-in defaults
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode
		panic(err)
	}
	return cfg
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generator: {Classification: %s, ConstraintSuppression: %s}, Output: {Format: %s}}",
		c.Generator.Classification, c.Generator.ConstraintSuppression, c.Output.Format)
}
