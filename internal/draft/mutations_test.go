package draft

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

func TestAddQuestionAssignsNextOrder(t *testing.T) {
	s, _, _ := newTestStore(t)

	q2 := s.AddQuestion()
	q3 := s.AddQuestion()

	if q2.Order != 2 || q3.Order != 3 {
		t.Fatalf("expected orders 2 and 3, got %d and %d", q2.Order, q3.Order)
	}
	assertDistinctOrders(t, s)
}

func TestOrderUniquenessUnderRandomEdits(t *testing.T) {
	s, _, _ := hydratedStore(t)
	rng := rand.New(rand.NewSource(1))

	for step := 0; step < 500; step++ {
		n := len(s.Questions())
		switch op := rng.Intn(4); {
		case op == 0 || n == 0:
			idx := len(s.Questions()) - 1
			s.AddQuestion()
			makeValidEssay(t, s, idx+1)
		case op == 1:
			// Deleting may tag or splice depending on identity.
			_ = s.DeleteQuestion(rng.Intn(n))
		case op == 2:
			_, err := s.DuplicateQuestion(rng.Intn(n))
			if err != nil && !errors.Is(err, ErrSourceInvalid) && !errors.Is(err, ErrQuestionDeleted) {
				t.Fatalf("step %d: DuplicateQuestion: %v", step, err)
			}
		default:
			err := s.ReorderQuestion(rng.Intn(n), 1+rng.Intn(n+2))
			if err != nil && !errors.Is(err, ErrQuestionDeleted) {
				t.Fatalf("step %d: ReorderQuestion: %v", step, err)
			}
		}
		assertDistinctOrders(t, s)
	}
}

func TestDeleteQuestionIdentityRule(t *testing.T) {
	s, _, _ := hydratedStore(t)
	s.AddQuestion() // local-only third question

	// Persisted question: retained, re-tagged delete.
	if err := s.DeleteQuestion(0); err != nil {
		t.Fatalf("DeleteQuestion(0): %v", err)
	}
	qs := s.Questions()
	if len(qs) != 3 {
		t.Fatalf("persisted delete must not shrink the collection: len=%d", len(qs))
	}
	if qs[0].RecordType != model.RecordTypeDelete {
		t.Fatalf("expected record type delete, got %s", qs[0].RecordType)
	}

	// Local-only question: spliced out entirely.
	if err := s.DeleteQuestion(2); err != nil {
		t.Fatalf("DeleteQuestion(2): %v", err)
	}
	if got := len(s.Questions()); got != 2 {
		t.Fatalf("local-only delete must shrink the collection: len=%d", got)
	}

	// Deleting an already-deleted question is rejected.
	if err := s.DeleteQuestion(0); !errors.Is(err, ErrQuestionDeleted) {
		t.Fatalf("expected ErrQuestionDeleted, got %v", err)
	}
}

func TestDeleteLocalQuestionReleasesPreviews(t *testing.T) {
	s, _, _ := newTestStore(t)
	prev := &fakePreview{}
	s.Questions()[0].Media = append(s.Questions()[0].Media, &model.MediaItem{Name: "x.png", Preview: prev})

	if err := s.DeleteQuestion(0); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if prev.releaseCount() != 1 {
		t.Fatalf("splicing a question must release its previews, got %d releases", prev.releaseCount())
	}
}

func TestDuplicateInvalidSourceIsStructurallyInert(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.SetQuestionType(0, model.QuestionTypeEssay); err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	// Essay with empty text: invalid.

	before := len(s.Questions())
	_, err := s.DuplicateQuestion(0)
	if !errors.Is(err, ErrSourceInvalid) {
		t.Fatalf("expected ErrSourceInvalid, got %v", err)
	}
	if got := len(s.Questions()); got != before {
		t.Fatalf("invalid duplication must not change structure: %d != %d", got, before)
	}
	if !s.Questions()[0].Touched {
		t.Fatal("invalid duplication must mark the source touched")
	}
}

func TestDuplicateStripsServerIDs(t *testing.T) {
	s, _, _ := hydratedStore(t)

	clone, err := s.DuplicateQuestion(0)
	if err != nil {
		t.Fatalf("DuplicateQuestion: %v", err)
	}

	if clone.ID != nil {
		t.Error("clone must not carry the source's server id")
	}
	if clone.RecordType != model.RecordTypeCreate {
		t.Errorf("clone must be a create, got %s", clone.RecordType)
	}
	for i, a := range clone.Answers {
		if a.ID != nil {
			t.Errorf("cloned answer %d must not carry a server id", i)
		}
	}
	for i, m := range clone.Media {
		if m.ID != nil {
			t.Errorf("cloned media %d must not carry a server id", i)
		}
	}
	if len(clone.DeletedAnswers) != 0 {
		t.Error("clone must start with no deleted answers")
	}
	if clone.Order != 3 {
		t.Errorf("clone should take the next available order, got %d", clone.Order)
	}

	// The clone's content matches the source.
	src := s.Questions()[0]
	if clone.Text != src.Text || clone.Points != src.Points || len(clone.Answers) != len(src.Answers) {
		t.Errorf("clone content mismatch: %+v vs %+v", clone, src)
	}
	assertDistinctOrders(t, s)
}

func TestReorderSwapsWithHolder(t *testing.T) {
	s, _, _ := hydratedStore(t)

	if err := s.ReorderQuestion(0, 2); err != nil {
		t.Fatalf("ReorderQuestion: %v", err)
	}

	qs := s.Questions()
	if qs[0].Order != 2 || qs[1].Order != 1 {
		t.Fatalf("expected swapped orders {2,1}, got {%d,%d}", qs[0].Order, qs[1].Order)
	}
	assertDistinctOrders(t, s)
}

func TestReorderToVacantOrder(t *testing.T) {
	s, _, _ := hydratedStore(t)

	if err := s.ReorderQuestion(1, 9); err != nil {
		t.Fatalf("ReorderQuestion: %v", err)
	}
	qs := s.Questions()
	if qs[1].Order != 9 || qs[0].Order != 1 {
		t.Fatalf("expected orders {1,9}, got {%d,%d}", qs[0].Order, qs[1].Order)
	}
	assertDistinctOrders(t, s)
}

func TestAddAndDeleteAnswerIdentityRule(t *testing.T) {
	s, _, _ := hydratedStore(t)

	// Persisted answer moves to the deleted list.
	if err := s.DeleteAnswer(0, 1); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	q := s.Questions()[0]
	if len(q.Answers) != 1 || len(q.DeletedAnswers) != 1 {
		t.Fatalf("expected 1 active + 1 deleted, got %d + %d", len(q.Answers), len(q.DeletedAnswers))
	}
	if q.DeletedAnswers[0].ID == nil || *q.DeletedAnswers[0].ID != 421 {
		t.Fatalf("wrong answer retired: %+v", q.DeletedAnswers[0])
	}

	// Last remaining answer of a choice question cannot be removed.
	if err := s.DeleteAnswer(0, 0); !errors.Is(err, ErrLastAnswer) {
		t.Fatalf("expected ErrLastAnswer, got %v", err)
	}

	// A local-only answer is spliced, not retired.
	if _, err := s.AddAnswer(0); err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	if err := s.DeleteAnswer(0, 1); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	q = s.Questions()[0]
	if len(q.Answers) != 1 || len(q.DeletedAnswers) != 1 {
		t.Fatalf("local-only answer must vanish: %d active, %d deleted", len(q.Answers), len(q.DeletedAnswers))
	}
}

func TestSetCorrectAnswer(t *testing.T) {
	s, _, _ := newTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := s.AddAnswer(0); err != nil {
			t.Fatalf("AddAnswer: %v", err)
		}
	}
	for i, text := range []string{"A", "B", "C"} {
		if err := s.SetAnswerText(0, i, text); err != nil {
			t.Fatalf("SetAnswerText: %v", err)
		}
	}

	if err := s.SetCorrectAnswer(0, 1); err != nil {
		t.Fatalf("SetCorrectAnswer: %v", err)
	}
	q := s.Questions()[0]
	for i, a := range q.Answers {
		if a.IsCorrect != (i == 1) {
			t.Fatalf("exactly answer 1 should be correct; answer %d has %v", i, a.IsCorrect)
		}
	}

	// Moving the designation flips the previous holder off.
	if err := s.SetCorrectAnswer(0, 2); err != nil {
		t.Fatalf("SetCorrectAnswer: %v", err)
	}
	q = s.Questions()[0]
	if q.Answers[1].IsCorrect || !q.Answers[2].IsCorrect {
		t.Fatal("designation must move, not accumulate")
	}
}

func TestSetCorrectAnswerRejectsBlankText(t *testing.T) {
	s, _, _ := newTestStore(t)
	if _, err := s.AddAnswer(0); err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	if err := s.SetAnswerText(0, 0, "   "); err != nil {
		t.Fatalf("SetAnswerText: %v", err)
	}

	if err := s.SetCorrectAnswer(0, 0); !errors.Is(err, ErrBlankAnswerCorrect) {
		t.Fatalf("expected ErrBlankAnswerCorrect, got %v", err)
	}
	a := s.Questions()[0].Answers[0]
	if a.MarkAsCorrectErr == "" {
		t.Fatal("mark-as-correct error must be set")
	}
	if a.IsCorrect {
		t.Fatal("blank answer must not become correct")
	}

	// Typing text clears the stale flag.
	if err := s.SetAnswerText(0, 0, "42"); err != nil {
		t.Fatalf("SetAnswerText: %v", err)
	}
	if s.Questions()[0].Answers[0].MarkAsCorrectErr != "" {
		t.Fatal("mark-as-correct error must be cleared once text is present")
	}
}

func TestSetQuestionTypeReseedsAnswers(t *testing.T) {
	s, _, _ := hydratedStore(t)

	// mcq → truefalse: the two persisted answers retire, two blanks seed.
	if err := s.SetQuestionType(0, model.QuestionTypeTrueFalse); err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	q := s.Questions()[0]
	if len(q.Answers) != 2 {
		t.Fatalf("truefalse must seed exactly 2 answers, got %d", len(q.Answers))
	}
	for i, a := range q.Answers {
		if a.Text != "" || a.IsCorrect || a.ID != nil {
			t.Fatalf("seeded answer %d must be a blank local answer: %+v", i, a)
		}
	}
	if len(q.DeletedAnswers) != 2 {
		t.Fatalf("persisted answers must retire on reseed, got %d", len(q.DeletedAnswers))
	}

	// truefalse → essay: answers drop entirely.
	if err := s.SetQuestionType(0, model.QuestionTypeEssay); err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	q = s.Questions()[0]
	if len(q.Answers) != 0 {
		t.Fatalf("essay must carry no answers, got %d", len(q.Answers))
	}

	// essay → mcq: one blank answer seeds.
	if err := s.SetQuestionType(0, model.QuestionTypeMCQ); err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	q = s.Questions()[0]
	if len(q.Answers) != 1 {
		t.Fatalf("mcq must seed one answer when none exist, got %d", len(q.Answers))
	}
}

func TestSetQuestionTypeClearsCorrectDesignation(t *testing.T) {
	s, _, _ := hydratedStore(t)

	// Question 1 is truefalse with answer 431 correct; switching to mcq keeps
	// the answers but clears the designation.
	if err := s.SetQuestionType(1, model.QuestionTypeMCQ); err != nil {
		t.Fatalf("SetQuestionType: %v", err)
	}
	for i, a := range s.Questions()[1].Answers {
		if a.IsCorrect {
			t.Fatalf("answer %d still marked correct after type change", i)
		}
	}
}
