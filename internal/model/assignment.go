package model

import "time"

// Assignment is the flat metadata of a coding-test assignment draft.
type Assignment struct {
	ID              *int64 `json:"id,omitempty"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Instructions    string `json:"instructions"`
}

// AssignmentSummary is a single row on the back-office assignment list page.
type AssignmentSummary struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	QuestionCount   int       `json:"question_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateAssignmentMetaRequest is the payload for editing draft metadata.
type UpdateAssignmentMetaRequest struct {
	Code            *string `json:"code" binding:"omitempty,min=1,max=50"`
	Name            *string `json:"name" binding:"omitempty,min=1,max=255"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	Instructions    *string `json:"instructions" binding:"omitempty,max=10000"`
}

// OpenDraftRequest opens a draft session. AssignmentID selects edit mode;
// when absent a fresh create-mode draft is seeded.
type OpenDraftRequest struct {
	AssignmentID *int64 `json:"assignment_id" binding:"omitempty,min=1"`
}

// PatchQuestionRequest carries field-level question edits. Every field is
// optional; present fields are applied in order: type, text, points,
// required, order.
type PatchQuestionRequest struct {
	QuestionType *string `json:"question_type" binding:"omitempty,oneof=mcq truefalse essay"`
	Text         *string `json:"text" binding:"omitempty,max=5000"`
	Points       *int    `json:"points" binding:"omitempty,min=0,max=1000"`
	Required     *bool   `json:"required"`
	Order        *int    `json:"order" binding:"omitempty,min=1"`
}

// PatchAnswerRequest edits a single answer's text.
type PatchAnswerRequest struct {
	Text string `json:"text" binding:"max=2000"`
}

// MarkCorrectRequest designates the correct answer of a question.
type MarkCorrectRequest struct {
	AnswerIndex *int `json:"answer_index" binding:"required,min=0"`
}
