package draft

import (
	"strings"

	"github.com/google/uuid"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// AddQuestion appends a fresh question with the next available order and
// returns it.
func (s *Store) AddQuestion() *model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := newQuestion(s.nextOrderLocked())
	s.questions = append(s.questions, q)
	s.reconcileLocked()
	return q
}

// nextOrderLocked returns max(active orders) + 1.
func (s *Store) nextOrderLocked() int {
	max := 0
	for _, q := range s.questions {
		if q.RecordType != model.RecordTypeDelete && q.Order > max {
			max = q.Order
		}
	}
	return max + 1
}

// DuplicateQuestion deep-copies the question at idx as a local-only clone
// with the next available order.
//
// The source is validated first: an invalid question is never cloned
// silently. On failure the draft is structurally unchanged, the source's
// fields are marked touched so inline errors render, and ErrSourceInvalid is
// returned.
func (s *Store) DuplicateQuestion(idx int) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.questionLocked(idx)
	if err != nil {
		return nil, err
	}
	if src.RecordType == model.RecordTypeDelete {
		return nil, ErrQuestionDeleted
	}

	if !validateQuestion(src) {
		markTouched(src)
		return nil, ErrSourceInvalid
	}

	clone := &model.Question{
		LocalID:    uuid.New(),
		Text:       src.Text,
		Type:       src.Type,
		Points:     src.Points,
		Required:   src.Required,
		Order:      s.nextOrderLocked(),
		RecordType: model.RecordTypeCreate,
		Answers:    make([]*model.Answer, 0, len(src.Answers)),
		Media:      make([]*model.MediaItem, 0, len(src.Media)),
	}

	// Backend IDs are stripped throughout so the whole clone reconciles as a
	// create; deleted answers of the source are not carried over.
	for _, a := range src.Answers {
		clone.Answers = append(clone.Answers, &model.Answer{
			Text:      a.Text,
			IsCorrect: a.IsCorrect,
		})
	}
	for _, m := range src.Media {
		if m.Deleted {
			continue
		}
		// Preview handles are single-owner and cannot be duplicated; the
		// clone renders from the persisted descriptor.
		clone.Media = append(clone.Media, &model.MediaItem{
			Name:      m.Name,
			SizeBytes: m.SizeBytes,
			Kind:      m.Kind,
			Persisted: m.Persisted,
		})
	}

	s.questions = append(s.questions, clone)
	s.reconcileLocked()
	return clone, nil
}

// DeleteQuestion removes the question at idx. A persisted question is
// retained and re-tagged delete so the backend receives an explicit delete
// instruction; a local-only question is spliced out entirely and its preview
// handles are released.
func (s *Store) DeleteQuestion(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(idx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}

	if q.ID != nil {
		q.RecordType = model.RecordTypeDelete
	} else {
		for _, m := range q.Media {
			m.ReleasePreview()
		}
		s.questions = append(s.questions[:idx], s.questions[idx+1:]...)
	}

	s.reconcileLocked()
	return nil
}

// ReorderQuestion moves the question at idx to newOrder. If another active
// question already holds newOrder the two swap orders; the reconciler then
// guarantees no residual collision.
func (s *Store) ReorderQuestion(idx, newOrder int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(idx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}
	if newOrder < 1 {
		return ErrIndexOutOfRange
	}

	for _, other := range s.questions {
		if other == q || other.RecordType == model.RecordTypeDelete {
			continue
		}
		if other.Order == newOrder {
			other.Order = q.Order
			break
		}
	}
	q.Order = newOrder

	s.reconcileLocked()
	return nil
}

// AddAnswer appends an empty answer to the question at idx.
func (s *Store) AddAnswer(questionIdx int) (*model.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(questionIdx)
	if err != nil {
		return nil, err
	}
	if q.RecordType == model.RecordTypeDelete {
		return nil, ErrQuestionDeleted
	}

	a := &model.Answer{}
	q.Answers = append(q.Answers, a)
	s.reconcileLocked()
	return a, nil
}

// DeleteAnswer removes the answer at answerIdx from the question at
// questionIdx. A persisted answer moves to the question's deleted list; a
// local-only answer is spliced. Choice questions keep at least one answer
// locally while editing.
func (s *Store) DeleteAnswer(questionIdx, answerIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(questionIdx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}
	if answerIdx < 0 || answerIdx >= len(q.Answers) {
		return ErrIndexOutOfRange
	}

	if q.Type != model.QuestionTypeEssay && len(q.Answers) <= 1 {
		return ErrLastAnswer
	}

	a := q.Answers[answerIdx]
	if a.ID != nil {
		q.DeletedAnswers = append(q.DeletedAnswers, a)
	}
	q.Answers = append(q.Answers[:answerIdx], q.Answers[answerIdx+1:]...)

	refreshQuestionFlags(q)
	s.reconcileLocked()
	return nil
}

// SetCorrectAnswer designates exactly one answer of the question as correct.
// An answer with empty/whitespace text cannot be marked correct; the attempt
// sets the answer's mark-as-correct error instead.
func (s *Store) SetCorrectAnswer(questionIdx, answerIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(questionIdx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}
	if answerIdx < 0 || answerIdx >= len(q.Answers) {
		return ErrIndexOutOfRange
	}

	target := q.Answers[answerIdx]
	if strings.TrimSpace(target.Text) == "" {
		target.MarkAsCorrectErr = "answer text is required before it can be marked correct"
		return ErrBlankAnswerCorrect
	}

	for _, a := range q.Answers {
		a.IsCorrect = a == target
		a.MarkAsCorrectErr = ""
	}

	refreshQuestionFlags(q)
	return nil
}

// SetQuestionType switches the question's type and reseeds its answer list to
// the new type's shape: mcq gets one empty answer if none exist, truefalse
// exactly two empty answers, essay none. Any designated correct answer is
// cleared; persisted answers displaced by the reseed move to the deleted
// list.
func (s *Store) SetQuestionType(questionIdx int, newType model.QuestionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(questionIdx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}
	if !newType.Valid() {
		return ErrIndexOutOfRange
	}
	if newType == q.Type {
		return nil
	}

	q.Type = newType

	switch newType {
	case model.QuestionTypeMCQ:
		if len(q.Answers) == 0 {
			q.Answers = []*model.Answer{{}}
		}
		clearCorrect(q)
	case model.QuestionTypeTrueFalse:
		s.retireAnswersLocked(q)
		q.Answers = []*model.Answer{{}, {}}
	case model.QuestionTypeEssay:
		s.retireAnswersLocked(q)
		q.Answers = []*model.Answer{}
	}

	refreshQuestionFlags(q)
	return nil
}

// retireAnswersLocked applies the identity rule to every current answer:
// persisted answers move to the deleted list, local-only answers vanish.
func (s *Store) retireAnswersLocked(q *model.Question) {
	for _, a := range q.Answers {
		if a.ID != nil {
			a.IsCorrect = false
			q.DeletedAnswers = append(q.DeletedAnswers, a)
		}
	}
	q.Answers = nil
}

func clearCorrect(q *model.Question) {
	for _, a := range q.Answers {
		a.IsCorrect = false
	}
}

// SetQuestionText updates the question text and recomputes its validation
// flags.
func (s *Store) SetQuestionText(questionIdx int, text string) error {
	return s.patchQuestion(questionIdx, func(q *model.Question) {
		q.Text = text
	})
}

// SetQuestionPoints updates the question's point value.
func (s *Store) SetQuestionPoints(questionIdx, points int) error {
	return s.patchQuestion(questionIdx, func(q *model.Question) {
		q.Points = points
	})
}

// SetQuestionRequired toggles the required flag.
func (s *Store) SetQuestionRequired(questionIdx int, required bool) error {
	return s.patchQuestion(questionIdx, func(q *model.Question) {
		q.Required = required
	})
}

// SetAnswerText updates an answer's text and recomputes the answer's derived
// validation state, including its mark-as-correct error.
func (s *Store) SetAnswerText(questionIdx, answerIdx int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(questionIdx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}
	if answerIdx < 0 || answerIdx >= len(q.Answers) {
		return ErrIndexOutOfRange
	}

	a := q.Answers[answerIdx]
	a.Text = text
	if strings.TrimSpace(text) != "" {
		a.MarkAsCorrectErr = ""
	}

	refreshQuestionFlags(q)
	return nil
}

func (s *Store) patchQuestion(idx int, apply func(*model.Question)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(idx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}

	apply(q)
	refreshQuestionFlags(q)
	return nil
}
