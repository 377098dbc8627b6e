package urdf

import (
	"errors"
	"fmt"
)

// Parsing and model construction fail with errors wrapping one of these
// sentinels, so callers can classify failures with errors.Is.
var (
	// ErrSchema indicates a required attribute or element was missing, or a
	// value failed type coercion.
	ErrSchema = errors.New("schema error")
	// ErrReference indicates a duplicate entity name or a dangling
	// name reference between entities.
	ErrReference = errors.New("reference error")
	// ErrConstraint indicates a structurally well-formed value that violates
	// a semantic invariant, such as an invalid joint type or an asymmetric
	// inertia tensor.
	ErrConstraint = errors.New("constraint error")
	// ErrUnsupported indicates an operation that is not implemented for the
	// given joint type, such as batched planar pose evaluation.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")
)

func newMissingAttributeError(attr, typeName string) error {
	return fmt.Errorf("%w: missing required attribute %q when parsing %s", ErrSchema, attr, typeName)
}

func newMissingElementError(tag, typeName string) error {
	return fmt.Errorf("%w: missing required element %q when parsing %s", ErrSchema, tag, typeName)
}

func newBadValueError(attr, typeName, value string) error {
	return fmt.Errorf("%w: attribute %q of %s has non-numeric value %q", ErrSchema, attr, typeName, value)
}

func newDuplicateNameError(kind, name string) error {
	return fmt.Errorf("%w: two %ss with name %q found", ErrReference, kind, name)
}

// NewUnsupportedJointTypeError returns an error for a joint type string
// outside the supported set.
func NewUnsupportedJointTypeError(jointType string) error {
	return fmt.Errorf("%w: unsupported joint type %q", ErrConstraint, jointType)
}
