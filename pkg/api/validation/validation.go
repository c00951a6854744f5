// Package validation enforces the required build parameters once, up front,
// before any stage of the assembly runs.
package validation

import (
	"fmt"
	"strings"

	"github.com/docker/distribution/reference"

	"github.com/overcooked-ai/demo2image/pkg/api"
)

// ValidateConfig returns a list of validation errors for the Config. An
// empty or unset required parameter is reported here instead of surfacing as
// a downstream acquisition or asset error.
func ValidateConfig(config *api.Config) []Error {
	allErrs := []Error{}
	if len(config.OvercookedBranch) == 0 {
		allErrs = append(allErrs, NewRequiredError("overcookedBranch"))
	} else if strings.ContainsAny(config.OvercookedBranch, "$`\"'\\;&|<>() \t\n") {
		// The branch name ends up inside a shell command line; anything
		// the shell could expand or split on is rejected here.
		allErrs = append(allErrs, NewInvalidValueError("overcookedBranch", config.OvercookedBranch))
	}
	if len(config.Graphics) == 0 {
		allErrs = append(allErrs, NewRequiredError("graphics"))
	} else if strings.ContainsAny(config.Graphics, "/\\") || config.Graphics == "." || config.Graphics == ".." {
		// The bundle is selected by bare filename under the graphics
		// directory; a path escapes the variant set.
		allErrs = append(allErrs, NewInvalidValueError("graphics", config.Graphics))
	}
	if len(config.ContextDir) == 0 {
		allErrs = append(allErrs, NewRequiredError("contextDir"))
	}
	switch config.Profile {
	case api.ProfileDevelopment, api.ProfileProduction:
	default:
		allErrs = append(allErrs, NewInvalidValueError("profile", string(config.Profile)))
	}
	if len(config.Tag) > 0 {
		if err := validateDockerReference(config.Tag); err != nil {
			allErrs = append(allErrs, NewInvalidValueError("tag", config.Tag))
		}
	}
	if len(config.AsDockerfile) == 0 && config.DockerConfig == nil {
		allErrs = append(allErrs, NewRequiredError("dockerConfig"))
	}
	return allErrs
}

func validateDockerReference(ref string) error {
	_, err := reference.ParseNormalizedNamed(ref)
	return err
}

// NewRequiredError creates an Error for a missing required field.
func NewRequiredError(field string) Error {
	return Error{Field: field, Type: ErrorTypeRequired}
}

// NewInvalidValueError creates an Error for a field with an invalid value.
func NewInvalidValueError(field, value string) Error {
	return Error{Field: field, Value: value, Type: ErrorInvalidValue}
}

// Error represents a validation error.
type Error struct {
	Field string
	Value interface{}
	Type  ErrorType
}

// Error implements the error interface.
func (e Error) Error() string {
	switch e.Type {
	case ErrorTypeRequired:
		return fmt.Sprintf("%s: Required value", e.Field)
	case ErrorInvalidValue:
		return fmt.Sprintf("%s: Invalid value specified: %q", e.Field, e.Value)
	default:
		return fmt.Sprintf("%s: %s", e.Field, e.Type)
	}
}

// ErrorType is a machine readable value providing more detail about why a
// field is invalid.
type ErrorType string

const (
	// ErrorTypeRequired is used to report required values that are not
	// provided (e.g. empty strings).
	ErrorTypeRequired ErrorType = "FieldValueRequired"

	// ErrorInvalidValue is used to report values that do not conform to
	// the expected schema.
	ErrorInvalidValue ErrorType = "FieldValueInvalid"
)
