// Package errors provides foundational, type-safe error primitives used across gtmdocs.
//
// Errors are classified by category (config, auth, network, data integrity,
// storage, ...) and severity so the CLI can choose exit codes and log levels
// without string matching.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryDataIntegrity, "jsm variable has no javascript parameter").
//		WithContext("variable_id", v.VariableID).
//		Build()
package errors
