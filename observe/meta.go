package observe

import "errors"

// ErrMissingOpName indicates OpMeta.Name is empty.
var ErrMissingOpName = errors.New("observe: operation name is required")

// OpMeta identifies a cached operation for telemetry.
type OpMeta struct {
	Namespace string // Namespace of the wrapped API (may be empty)
	Name      string // Operation name (required)
}

// ID returns the fully qualified operation identifier:
// <namespace>.<name> or just <name>.
func (m OpMeta) ID() string {
	if m.Namespace != "" {
		return m.Namespace + "." + m.Name
	}
	return m.Name
}

// SpanName returns the span name used for computing this operation.
func (m OpMeta) SpanName() string {
	return "cache.compute." + m.ID()
}

// Validate checks that the metadata names an operation.
func (m OpMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingOpName
	}
	return nil
}
