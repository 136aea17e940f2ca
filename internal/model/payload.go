package model

// Reconciliation payload shapes: the full nested request body sent on submit.
// Every entity carries its record type so the backend — which has no partial
// patch semantics of its own — can apply a whole-document patch.

// AssignmentPayload is the top-level submission body.
type AssignmentPayload struct {
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	Instructions    string            `json:"instructions"`
	DurationMinutes int               `json:"duration_minutes"`
	Questions       []QuestionPayload `json:"questions"`
}

// QuestionPayload is one question entry in the submission body. Questions
// tagged delete are included, not stripped, so the backend can action the
// deletion.
type QuestionPayload struct {
	ID           *int64          `json:"id,omitempty"`
	RecordType   RecordType      `json:"record_type"`
	QuestionType int             `json:"question_type"`
	QuestionText string          `json:"question_text"`
	Points       int             `json:"points"`
	Order        int             `json:"order"`
	IsRequired   bool            `json:"is_required"`
	Media        []MediaPayload  `json:"media"`
	Answers      []AnswerPayload `json:"answers"`
}

// FilePayload is the file block of a media entry.
type FilePayload struct {
	ImageURL          string   `json:"image_url"`
	GenerateSignedURL string   `json:"generate_signed_url"`
	Info              FileInfo `json:"info"`
}

// MediaPayload is one media entry in the submission body.
type MediaPayload struct {
	ID         *int64      `json:"id,omitempty"`
	RecordType RecordType  `json:"record_type"`
	MediaType  int         `json:"media_type"`
	File       FilePayload `json:"file"`
	Order      int         `json:"order"`
}

// AnswerPayload is one answer entry in the submission body.
type AnswerPayload struct {
	ID         *int64     `json:"id,omitempty"`
	RecordType RecordType `json:"record_type"`
	Text       string     `json:"text"`
	Order      int        `json:"order"`
	IsCorrect  bool       `json:"is_correct"`
}
