package httputil

// Machine-readable error codes returned in ErrorResponse.Code
const (
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeRequestTooLarge    = "REQUEST_TOO_LARGE"

	CodeInvalidCredentials           = "INVALID_CREDENTIALS"
	CodeBothPasswordFieldsRequired   = "BOTH_PASSWORD_FIELDS_REQUIRED"
	CodePasswordConfirmationMismatch = "PASSWORD_CONFIRMATION_MISMATCH"

	CodeMissingAuth      = "MISSING_AUTH"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
)
