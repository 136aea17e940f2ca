package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"
	ErrForbidden     ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Draft-specific ────────────────────────────────────────────────
	ErrDraftNotFound      ErrCode = "DRAFT_NOT_FOUND"
	ErrIndexOutOfRange    ErrCode = "INDEX_OUT_OF_RANGE"
	ErrQuestionDeleted    ErrCode = "QUESTION_DELETED"
	ErrSourceInvalid      ErrCode = "SOURCE_QUESTION_INVALID"
	ErrLastAnswer         ErrCode = "LAST_ANSWER_REQUIRED"
	ErrBlankAnswerCorrect ErrCode = "BLANK_ANSWER_CORRECT"
	ErrDraftInvalid       ErrCode = "DRAFT_VALIDATION_FAILED"
	ErrUploadInFlight     ErrCode = "UPLOAD_IN_FLIGHT"
	ErrSubmitFailed       ErrCode = "SUBMIT_FAILED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrUploadFailed    ErrCode = "UPLOAD_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrTokenExpired:
		return "The authentication token has expired."
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please review your input."
	case ErrInvalidID:
		return "The identifier format is not valid."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Draft-specific ────────────────────────────────────────────────
	case ErrDraftNotFound:
		return "The draft session was not found or has expired."
	case ErrIndexOutOfRange:
		return "The question, answer, or media index does not exist."
	case ErrQuestionDeleted:
		return "This question is already marked for deletion."
	case ErrSourceInvalid:
		return "Fix the highlighted errors before duplicating this question."
	case ErrLastAnswer:
		return "A choice question must keep at least one answer."
	case ErrBlankAnswerCorrect:
		return "Enter the answer text before marking it as correct."
	case ErrDraftInvalid:
		return "The assignment has validation errors. Review the highlighted questions."
	case ErrUploadInFlight:
		return "Please wait for the media upload to finish."
	case ErrSubmitFailed:
		return "Saving the assignment failed. Your draft has been kept — please try again."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "This file type is not supported."
	case ErrFileTooLarge:
		return "The file exceeds the upload size limit."
	case ErrUploadFailed:
		return "Uploading the file failed. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
