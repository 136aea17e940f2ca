package model

import (
	"strings"

	"github.com/google/uuid"
)

// RecordType is the reconciliation action the backend should take for an
// entity when the draft is submitted.
type RecordType string

const (
	RecordTypeCreate RecordType = "create"
	RecordTypeUpdate RecordType = "update"
	RecordTypeDelete RecordType = "delete"
)

// QuestionType discriminates the validation and answer rules for a question.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeTrueFalse QuestionType = "truefalse"
	QuestionTypeEssay     QuestionType = "essay"
)

// Wire codes for question types (backend contract).
const (
	QuestionTypeCodeMCQ       = 1
	QuestionTypeCodeTrueFalse = 2
	QuestionTypeCodeEssay     = 3
)

// Code returns the numeric wire code for the question type.
func (t QuestionType) Code() int {
	switch t {
	case QuestionTypeTrueFalse:
		return QuestionTypeCodeTrueFalse
	case QuestionTypeEssay:
		return QuestionTypeCodeEssay
	default:
		return QuestionTypeCodeMCQ
	}
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeTrueFalse, QuestionTypeEssay:
		return true
	}
	return false
}

// QuestionTypeFromRemote derives a QuestionType from the backend's numeric
// type code, falling back to a substring match on the type name for records
// where the code is absent or unknown.
func QuestionTypeFromRemote(code int, name string) QuestionType {
	switch code {
	case QuestionTypeCodeMCQ:
		return QuestionTypeMCQ
	case QuestionTypeCodeTrueFalse:
		return QuestionTypeTrueFalse
	case QuestionTypeCodeEssay:
		return QuestionTypeEssay
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "true"):
		return QuestionTypeTrueFalse
	case strings.Contains(lower, "essay"):
		return QuestionTypeEssay
	default:
		return QuestionTypeMCQ
	}
}

// Question is a single question inside an assignment draft.
//
// ID is the backend identifier and is present iff the question already exists
// in the backing store; a question without an ID is local-only and has never
// been persisted. LocalID is stable for the lifetime of the draft and is what
// UI-side bookkeeping (expanded/touched tracking) should key on, since
// collection indices drift under insertion and deletion.
type Question struct {
	LocalID  uuid.UUID    `json:"local_id"`
	ID       *int64       `json:"id,omitempty"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Points   int          `json:"points"`
	Required bool         `json:"required"`

	// Order is a positive integer; among all questions whose RecordType is
	// not delete, order values are pairwise distinct.
	Order int `json:"order"`

	RecordType RecordType `json:"record_type"`

	Answers []*Answer    `json:"answers"`
	Media   []*MediaItem `json:"media"`

	// DeletedAnswers holds previously persisted answers the user removed;
	// they are retained so the backend receives an explicit delete
	// instruction on submit.
	DeletedAnswers []*Answer `json:"deleted_answers,omitempty"`

	Touched bool   `json:"touched"`
	Err     string `json:"error,omitempty"`
}

// Answer is a single answer option on a question.
//
// The validation fields are derived state. They are recomputed whenever the
// answer's text, the question's designated correct answer, or a submit
// attempt changes; they are never user input.
type Answer struct {
	ID        *int64 `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`

	Touched          bool   `json:"touched"`
	Err              string `json:"error,omitempty"`
	MarkAsCorrectErr string `json:"mark_as_correct_error,omitempty"`
}
