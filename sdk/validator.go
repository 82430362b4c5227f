package sdk

// Validator is used to validate the additional fields of an operation across
// different protocol families.
//
// Implement this to provide family-specific validation for additional fields.
type Validator interface {
	Validate() error
}
