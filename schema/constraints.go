package schema

// Exclusive is an exclusiveMinimum/exclusiveMaximum keyword. The boolean form
// sets only Set; the numeric form sets Set and Value; `false` leaves both unset.
type Exclusive struct {
	Set   bool
	Value *float64
}

// Constraints are the validation keywords of a node, nil when absent.
type Constraints struct {
	MinLength *int64
	MaxLength *int64

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum Exclusive
	ExclusiveMaximum Exclusive

	MinItems *int64
	MaxItems *int64
}

// Any reports whether at least one constraint keyword is present.
func (c Constraints) Any() bool {
	return c.MinLength != nil || c.MaxLength != nil ||
		c.Minimum != nil || c.Maximum != nil ||
		c.ExclusiveMinimum.Set || c.ExclusiveMaximum.Set ||
		c.MinItems != nil || c.MaxItems != nil
}
