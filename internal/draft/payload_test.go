package draft

import (
	"context"
	"testing"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// Create-mode scenario: one mcq question, two answers, first correct.
func TestBuildPayloadCreateScenario(t *testing.T) {
	s, _, _ := newTestStore(t)
	fillMeta(s)
	if err := s.SetQuestionText(0, "Pick one"); err != nil {
		t.Fatalf("SetQuestionText: %v", err)
	}
	if err := s.SetQuestionPoints(0, 10); err != nil {
		t.Fatalf("SetQuestionPoints: %v", err)
	}
	for i, text := range []string{"A", "B"} {
		if _, err := s.AddAnswer(0); err != nil {
			t.Fatalf("AddAnswer: %v", err)
		}
		if err := s.SetAnswerText(0, i, text); err != nil {
			t.Fatalf("SetAnswerText: %v", err)
		}
	}
	if err := s.SetCorrectAnswer(0, 0); err != nil {
		t.Fatalf("SetCorrectAnswer: %v", err)
	}

	p := s.BuildPayload()

	if p.Code != "GO-101" || p.DurationMinutes != 60 {
		t.Fatalf("meta not projected: %+v", p)
	}
	if len(p.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(p.Questions))
	}
	q := p.Questions[0]
	if q.ID != nil || q.RecordType != model.RecordTypeCreate {
		t.Fatalf("expected id-less create, got id=%v rt=%s", q.ID, q.RecordType)
	}
	if q.QuestionType != model.QuestionTypeCodeMCQ {
		t.Errorf("expected type code 1, got %d", q.QuestionType)
	}
	if len(q.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(q.Answers))
	}
	for i, a := range q.Answers {
		if a.RecordType != model.RecordTypeCreate {
			t.Errorf("answer %d should be create, got %s", i, a.RecordType)
		}
		if a.Order != i+1 {
			t.Errorf("answer %d should have order %d, got %d", i, i+1, a.Order)
		}
	}
	if !q.Answers[0].IsCorrect || q.Answers[1].IsCorrect {
		t.Fatal("first answer should be the single correct one")
	}
}

// Edit-mode scenario: deleting a persisted question keeps it in the payload
// as an explicit delete instruction.
func TestBuildPayloadEditDeleteScenario(t *testing.T) {
	remote := remoteFixture()
	remote.Questions = remote.Questions[:1] // one question, server id 42
	s := NewFromRemote(Config{}, remote)

	if err := s.DeleteQuestion(0); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	p := s.BuildPayload()
	if len(p.Questions) != 1 {
		t.Fatalf("deleted question must stay in the payload, got %d entries", len(p.Questions))
	}
	q := p.Questions[0]
	if q.ID == nil || *q.ID != 42 {
		t.Fatalf("expected id 42, got %v", q.ID)
	}
	if q.RecordType != model.RecordTypeDelete {
		t.Fatalf("expected record type delete, got %s", q.RecordType)
	}
	// Nested answers and media are emitted as-is.
	if len(q.Answers) != 2 || len(q.Media) != 1 {
		t.Fatalf("nested entities missing: %d answers, %d media", len(q.Answers), len(q.Media))
	}
}

func TestBuildPayloadDeletedAnswersOrderedAfterActive(t *testing.T) {
	s, _, _ := hydratedStore(t)

	if err := s.DeleteAnswer(0, 1); err != nil { // retires persisted answer 421
		t.Fatalf("DeleteAnswer: %v", err)
	}
	if _, err := s.AddAnswer(0); err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	if err := s.SetAnswerText(0, 1, "map"); err != nil {
		t.Fatalf("SetAnswerText: %v", err)
	}

	p := s.BuildPayload()
	answers := p.Questions[0].Answers
	if len(answers) != 3 {
		t.Fatalf("expected 2 active + 1 deleted answers, got %d", len(answers))
	}

	if answers[0].RecordType != model.RecordTypeUpdate || answers[0].Order != 1 {
		t.Errorf("persisted active answer should be update/order-1: %+v", answers[0])
	}
	if answers[1].RecordType != model.RecordTypeCreate || answers[1].Order != 2 {
		t.Errorf("local answer should be create/order-2: %+v", answers[1])
	}

	del := answers[2]
	if del.RecordType != model.RecordTypeDelete {
		t.Errorf("retired answer must be forced to delete, got %s", del.RecordType)
	}
	if del.Text != "" {
		t.Errorf("retired answer text must be emptied, got %q", del.Text)
	}
	if del.Order != 3 {
		t.Errorf("retired answer must be ordered after active ones, got %d", del.Order)
	}
	if del.ID == nil || *del.ID != 421 {
		t.Errorf("retired answer must keep its id, got %v", del.ID)
	}
}

func TestBuildPayloadMediaRules(t *testing.T) {
	s, _, _ := hydratedStore(t)

	// A fresh upload on question 1 reconciles as create.
	if _, err := s.UploadMedia(context.Background(), 1, nil, pngFile("extra.png", 256, nil)); err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}

	// An item with no descriptor at all is dropped from the payload.
	s.Questions()[1].Media = append(s.Questions()[1].Media, &model.MediaItem{Name: "ghost.png"})

	p := s.BuildPayload()

	m0 := p.Questions[0].Media
	if len(m0) != 1 {
		t.Fatalf("expected 1 media entry on question 0, got %d", len(m0))
	}
	// Untouched hydrated media is still tagged update (observed backend
	// contract).
	if m0[0].RecordType != model.RecordTypeUpdate || m0[0].ID == nil {
		t.Fatalf("hydrated media should be update-with-id: %+v", m0[0])
	}
	if m0[0].File.ImageURL != "/uploads/diagram.png" {
		t.Fatalf("persisted descriptor must pass through unchanged: %+v", m0[0].File)
	}

	m1 := p.Questions[1].Media
	if len(m1) != 1 {
		t.Fatalf("descriptor-less media must be dropped; expected 1 entry, got %d", len(m1))
	}
	if m1[0].RecordType != model.RecordTypeCreate || m1[0].ID != nil {
		t.Fatalf("fresh upload should be id-less create: %+v", m1[0])
	}
	if m1[0].MediaType != model.MediaKindCodeImage {
		t.Errorf("expected media type code 1, got %d", m1[0].MediaType)
	}
}

func TestBuildPayloadDeletedMediaTaggedDelete(t *testing.T) {
	s, _, _ := hydratedStore(t)

	if err := s.DeleteMedia(0, 0); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}

	p := s.BuildPayload()
	m := p.Questions[0].Media
	if len(m) != 1 {
		t.Fatalf("persisted media must stay in the payload, got %d", len(m))
	}
	if m[0].RecordType != model.RecordTypeDelete {
		t.Fatalf("expected delete record type, got %s", m[0].RecordType)
	}
	if m[0].ID == nil || *m[0].ID != 900 {
		t.Fatalf("expected id 900, got %v", m[0].ID)
	}
}

func TestBuildPayloadIsReadOnly(t *testing.T) {
	s, _, _ := hydratedStore(t)

	a := s.BuildPayload()
	b := s.BuildPayload()

	if len(a.Questions) != len(b.Questions) {
		t.Fatal("building twice must be deterministic")
	}
	for i := range a.Questions {
		if a.Questions[i].Order != b.Questions[i].Order ||
			a.Questions[i].RecordType != b.Questions[i].RecordType ||
			len(a.Questions[i].Answers) != len(b.Questions[i].Answers) {
			t.Fatalf("payload build mutated the draft at question %d", i)
		}
	}
}
