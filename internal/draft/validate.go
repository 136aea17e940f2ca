package draft

import (
	"strings"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// ValidationResult is the outcome of a submit-attempt validation pass.
type ValidationResult struct {
	// InvalidIndices holds the collection index of every active question
	// that failed validation, so the UI can expand all of them at once.
	InvalidIndices []int `json:"invalid_indices"`

	// FirstInvalid is the first offending index for scroll-to-error
	// behavior, or -1 when every question passed.
	FirstInvalid int `json:"first_invalid"`

	// MetaErrors holds field-level errors on the assignment metadata.
	MetaErrors map[string]string `json:"meta_errors,omitempty"`
}

// OK reports whether the draft may be submitted.
func (r ValidationResult) OK() bool {
	return len(r.InvalidIndices) == 0 && len(r.MetaErrors) == 0
}

// Validate runs a full submit-attempt validation pass: every active question
// and every answer is marked touched, per-type rules are evaluated, and all
// invalid question indices are collected. Only touched/error flags are
// written; text, correctness, and structure are never mutated.
func (s *Store) Validate() ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Store) validateLocked() ValidationResult {
	res := ValidationResult{FirstInvalid: -1}

	res.MetaErrors = validateMeta(s.meta)

	for i, q := range s.questions {
		if q.RecordType == model.RecordTypeDelete {
			continue
		}
		markTouched(q)
		if !validateQuestion(q) {
			res.InvalidIndices = append(res.InvalidIndices, i)
			if res.FirstInvalid < 0 {
				res.FirstInvalid = i
			}
		}
	}

	return res
}

func validateMeta(meta model.Assignment) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(meta.Code) == "" {
		errs["code"] = "assignment code is required"
	}
	if strings.TrimSpace(meta.Name) == "" {
		errs["name"] = "assignment name is required"
	}
	if meta.DurationMinutes <= 0 {
		errs["duration_minutes"] = "duration must be greater than zero"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateQuestion evaluates the per-type rule table, writing the question's
// and its answers' error flags. Returns true when the question is valid.
//
//	mcq       text non-empty; points > 0; ≥1 answer, all non-empty;
//	          exactly one marked correct
//	truefalse text non-empty; points > 0; exactly 2 answers, both non-empty;
//	          exactly one marked correct
//	essay     text non-empty; points > 0
func validateQuestion(q *model.Question) bool {
	q.Err = ""

	if strings.TrimSpace(q.Text) == "" {
		q.Err = "question text is required"
	} else if q.Points <= 0 {
		q.Err = "points must be greater than zero"
	}

	answersOK := true
	if q.Type != model.QuestionTypeEssay {
		correct := 0
		for _, a := range q.Answers {
			a.Err = ""
			if strings.TrimSpace(a.Text) == "" {
				a.Err = "answer text is required"
				answersOK = false
			}
			if a.IsCorrect {
				correct++
			}
		}

		switch {
		case q.Type == model.QuestionTypeMCQ && len(q.Answers) < 1:
			if q.Err == "" {
				q.Err = "at least one answer is required"
			}
			answersOK = false
		case q.Type == model.QuestionTypeTrueFalse && len(q.Answers) != 2:
			if q.Err == "" {
				q.Err = "exactly two answers are required"
			}
			answersOK = false
		case correct != 1:
			if q.Err == "" {
				q.Err = "exactly one answer must be marked correct"
			}
			answersOK = false
		}
	}

	return q.Err == "" && answersOK
}

// refreshQuestionFlags recomputes derived validation state after a field
// edit, without marking anything touched. Flags must never be left stale.
func refreshQuestionFlags(q *model.Question) {
	validateQuestion(q)
}

// markTouched marks the question and all of its answers touched so inline
// errors render.
func markTouched(q *model.Question) {
	q.Touched = true
	for _, a := range q.Answers {
		a.Touched = true
	}
}
