// Package errors provides structured error handling for the kernel.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Execution pipeline errors
	CodeUnknownAction        Code = "UNKNOWN_ACTION"
	CodeMissingParameter     Code = "MISSING_PARAMETER"
	CodeObjectNotFound       Code = "OBJECT_NOT_FOUND"
	CodePreconditionFailed   Code = "PRECONDITION_FAILED"
	CodeRuleExecutionFailure Code = "RULE_EXECUTION_FAILURE"

	// Collaborator errors
	CodeBackendError Code = "BACKEND_ERROR"

	// Intent resolution errors
	CodeIntentUnresolved Code = "INTENT_UNRESOLVED"

	// Ontology errors
	CodeOntologyInvalid        Code = "ONTOLOGY_INVALID"
	CodeOntologyDuplicateID    Code = "ONTOLOGY_DUPLICATE_ID"
	CodeOntologyEmptyActionID  Code = "ONTOLOGY_EMPTY_ACTION_ID"
	CodeOntologyEmptyParamName Code = "ONTOLOGY_EMPTY_PARAM_NAME"

	// Template errors
	CodeTemplateMissingKey Code = "TEMPLATE_MISSING_KEY"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeMissingParameter,
		CodeOntologyInvalid,
		CodeOntologyDuplicateID,
		CodeOntologyEmptyActionID,
		CodeOntologyEmptyParamName,
		CodeTemplateMissingKey:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodePreconditionFailed,
		CodeRuleExecutionFailure:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeUnknownAction,
		CodeObjectNotFound,
		CodeNotFound:
		return codes.NotFound

	// Unavailable - collaborator failures
	case CodeBackendError:
		return codes.Unavailable

	// Unimplemented is deliberately unused: unrecognized logic and rule
	// types degrade inside the pipeline instead of escaping as errors.
	case CodeIntentUnresolved:
		return codes.InvalidArgument

	default:
		return codes.Internal
	}
}
