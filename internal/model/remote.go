package model

// Remote read shapes: what the backend returns for an existing assignment.
// The draft store hydrates from these on edit-mode open.

// RemoteAssignment is an assignment as returned by the backend read endpoint.
type RemoteAssignment struct {
	ID              int64            `json:"id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	DurationMinutes int              `json:"duration_minutes"`
	Instructions    string           `json:"instructions"`
	Questions       []RemoteQuestion `json:"questions"`
}

// RemoteQuestionType is the backend's question type reference.
type RemoteQuestionType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RemoteQuestion is a persisted question as returned by the backend.
type RemoteQuestion struct {
	ID           int64              `json:"id"`
	QuestionText string             `json:"question_text"`
	QuestionType RemoteQuestionType `json:"question_type"`
	Points       int                `json:"points"`
	IsRequired   bool               `json:"is_required"`
	Order        int                `json:"order"`
	Media        []RemoteMedia      `json:"media"`
	Answers      []RemoteAnswer     `json:"answers"`
}

// RemoteMedia is a persisted media attachment.
type RemoteMedia struct {
	ID          int64          `json:"id"`
	DocumentURL FileDescriptor `json:"document_url"`
}

// RemoteAnswer is a persisted answer option.
type RemoteAnswer struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}
