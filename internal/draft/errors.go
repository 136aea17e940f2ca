package draft

import (
	"errors"
	"fmt"
)

// Sentinel errors for draft operations. These are all local and recoverable;
// the draft is never left in a partially-applied state by a failed operation.
var (
	// ErrIndexOutOfRange reports a question, answer, or media index that does
	// not exist in the draft.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrQuestionDeleted reports an operation against a question already
	// tagged for deletion.
	ErrQuestionDeleted = errors.New("question is tagged for deletion")

	// ErrSourceInvalid reports a duplication attempt on a question that does
	// not pass validation; the source is marked touched and no clone is made.
	ErrSourceInvalid = errors.New("source question is invalid")

	// ErrLastAnswer reports an attempt to remove the last remaining answer of
	// a choice question; at least one answer must remain while editing.
	ErrLastAnswer = errors.New("cannot remove the last answer")

	// ErrBlankAnswerCorrect reports an attempt to mark an answer with
	// empty/whitespace text as correct.
	ErrBlankAnswerCorrect = errors.New("cannot mark a blank answer as correct")

	// ErrFileTooLarge reports a file rejected by the size ceiling before any
	// network call.
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")

	// ErrUploadFailed wraps an upload transport failure; the draft is
	// unchanged.
	ErrUploadFailed = errors.New("upload failed")

	// ErrUploadInFlight reports a submit or tab-advance attempt while a media
	// upload is still running.
	ErrUploadInFlight = errors.New("a media upload is still in progress")

	// ErrSubmitFailed wraps a submission transport failure; the draft is
	// preserved in full so the user can retry.
	ErrSubmitFailed = errors.New("submission failed")

	// ErrClosed reports an operation on a draft that was already torn down.
	ErrClosed = errors.New("draft is closed")
)

// ValidationFailedError gates submission. It carries every invalid question
// index — not just the first — so the UI can expand all offending questions
// at once, plus the first index for scroll-to-error.
type ValidationFailedError struct {
	Result ValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed for %d question(s)", len(e.Result.InvalidIndices))
}
