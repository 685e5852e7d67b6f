package am

import "github.com/teranos/schemagen/errors"

// Validate checks that the configuration is valid. Every failure satisfies
// errors.Is(err, errors.ErrInvalidConfig).
func (c *Config) Validate() error {
	switch c.Generator.Classification {
	case ClassificationLegacy, ClassificationMapFirst:
	default:
		return invalid("generator.classification must be %q or %q, got %q",
			ClassificationLegacy, ClassificationMapFirst, c.Generator.Classification)
	}

	switch c.Generator.ConstraintSuppression {
	case SuppressionAll, SuppressionAny:
	default:
		return invalid("generator.constraint_suppression must be %q or %q, got %q",
			SuppressionAll, SuppressionAny, c.Generator.ConstraintSuppression)
	}

	if c.Generator.NullableExtension == "" {
		return invalid("generator.nullable_extension cannot be empty")
	}

	// Empty suffixes would make synthetic names collide with their parent
	suffixes := []struct {
		key   string
		value string
	}{
		{"generator.union_member_suffix", c.Generator.UnionMemberSuffix},
		{"generator.array_item_suffix", c.Generator.ArrayItemSuffix},
		{"generator.map_value_suffix", c.Generator.MapValueSuffix},
		{"generator.message_payload_suffix", c.Generator.MessagePayloadSuffix},
	}
	for _, s := range suffixes {
		if s.value == "" {
			return invalid("%s cannot be empty", s.key)
		}
	}

	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		return invalid("output.format must be %q or %q, got %q", FormatJSON, FormatYAML, c.Output.Format)
	}

	if c.Log.Verbosity < 0 {
		return invalid("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidConfig, format, args...)
}
