// Package validator checks request and dependency structs against their
// `validate` tags.
//
// Business code depends on Validator; V10Validator is the go-playground
// implementation with the custom rules this service needs.
package validator

// Validator validates a struct and returns a descriptive error when it does not pass.
type Validator interface {
	Validate(data any) error
}
