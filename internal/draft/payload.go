package draft

import "github.com/WorkEnrich-llc/wds-assignment-service/internal/model"

// BuildPayload projects the draft into the reconciliation payload the backend
// accepts. The projection is deterministic and read-only: it never mutates
// store state.
//
// Every question is emitted — deleted-tagged ones included, so the backend
// can action the deletion — with its nested answers and media projected the
// same way.
func (s *Store) BuildPayload() *model.AssignmentPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildPayloadLocked()
}

func (s *Store) buildPayloadLocked() *model.AssignmentPayload {
	p := &model.AssignmentPayload{
		Code:            s.meta.Code,
		Name:            s.meta.Name,
		Instructions:    s.meta.Instructions,
		DurationMinutes: s.meta.DurationMinutes,
		Questions:       make([]model.QuestionPayload, 0, len(s.questions)),
	}

	for _, q := range s.questions {
		recordType := q.RecordType
		if q.ID == nil {
			recordType = model.RecordTypeCreate
		}

		qp := model.QuestionPayload{
			ID:           q.ID,
			RecordType:   recordType,
			QuestionType: q.Type.Code(),
			QuestionText: q.Text,
			Points:       q.Points,
			Order:        q.Order,
			IsRequired:   q.Required,
			Media:        buildMedia(q.Media),
			Answers:      buildAnswers(q),
		}
		p.Questions = append(p.Questions, qp)
	}

	return p
}

// buildMedia projects a question's media list. Entries with neither a fresh
// upload descriptor nor a previously persisted one carry nothing the backend
// could store and are dropped.
//
// Hydrated items that were never touched are still tagged update — the
// backend contract has always received them that way.
func buildMedia(items []*model.MediaItem) []model.MediaPayload {
	out := make([]model.MediaPayload, 0, len(items))
	for _, m := range items {
		if m.Persisted == nil {
			continue
		}

		recordType := model.RecordTypeCreate
		switch {
		case m.Deleted:
			recordType = model.RecordTypeDelete
		case m.ID != nil:
			recordType = model.RecordTypeUpdate
		}

		out = append(out, model.MediaPayload{
			ID:         m.ID,
			RecordType: recordType,
			MediaType:  m.Kind.Code(),
			File: model.FilePayload{
				ImageURL:          m.Persisted.AssetURL,
				GenerateSignedURL: m.Persisted.SignedURL,
				Info:              m.Persisted.Info,
			},
			Order: len(out) + 1,
		})
	}
	return out
}

// buildAnswers projects the active answer list ordered 1..N, then the deleted
// answers forced to record type delete with empty text, ordered after the
// active ones.
func buildAnswers(q *model.Question) []model.AnswerPayload {
	out := make([]model.AnswerPayload, 0, len(q.Answers)+len(q.DeletedAnswers))

	for i, a := range q.Answers {
		recordType := model.RecordTypeCreate
		if a.ID != nil {
			recordType = model.RecordTypeUpdate
		}
		out = append(out, model.AnswerPayload{
			ID:         a.ID,
			RecordType: recordType,
			Text:       a.Text,
			Order:      i + 1,
			IsCorrect:  a.IsCorrect,
		})
	}

	for _, a := range q.DeletedAnswers {
		out = append(out, model.AnswerPayload{
			ID:         a.ID,
			RecordType: model.RecordTypeDelete,
			Text:       "",
			Order:      len(out) + 1,
		})
	}

	return out
}
