package draft

import (
	"testing"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

func TestValidateRuleTable(t *testing.T) {
	correct := func(texts []string, correctIdx int) []*model.Answer {
		out := make([]*model.Answer, len(texts))
		for i, txt := range texts {
			out[i] = &model.Answer{Text: txt, IsCorrect: i == correctIdx}
		}
		return out
	}

	cases := []struct {
		name  string
		q     model.Question
		valid bool
	}{
		{
			name:  "mcq valid",
			q:     model.Question{Type: model.QuestionTypeMCQ, Text: "q", Points: 1, Answers: correct([]string{"a", "b"}, 0)},
			valid: true,
		},
		{
			name:  "mcq empty text",
			q:     model.Question{Type: model.QuestionTypeMCQ, Text: "  ", Points: 1, Answers: correct([]string{"a"}, 0)},
			valid: false,
		},
		{
			name:  "mcq zero points",
			q:     model.Question{Type: model.QuestionTypeMCQ, Text: "q", Points: 0, Answers: correct([]string{"a"}, 0)},
			valid: false,
		},
		{
			name:  "mcq no answers",
			q:     model.Question{Type: model.QuestionTypeMCQ, Text: "q", Points: 1},
			valid: false,
		},
		{
			name:  "mcq blank answer",
			q:     model.Question{Type: model.QuestionTypeMCQ, Text: "q", Points: 1, Answers: correct([]string{"a", ""}, 0)},
			valid: false,
		},
		{
			name:  "mcq no correct answer",
			q:     model.Question{Type: model.QuestionTypeMCQ, Text: "q", Points: 1, Answers: correct([]string{"a", "b"}, -1)},
			valid: false,
		},
		{
			name:  "truefalse valid",
			q:     model.Question{Type: model.QuestionTypeTrueFalse, Text: "q", Points: 1, Answers: correct([]string{"True", "False"}, 1)},
			valid: true,
		},
		{
			name:  "truefalse wrong answer count",
			q:     model.Question{Type: model.QuestionTypeTrueFalse, Text: "q", Points: 1, Answers: correct([]string{"True"}, 0)},
			valid: false,
		},
		{
			name:  "essay valid without answers",
			q:     model.Question{Type: model.QuestionTypeEssay, Text: "q", Points: 1},
			valid: true,
		},
		{
			name:  "essay empty text",
			q:     model.Question{Type: model.QuestionTypeEssay, Text: "", Points: 1},
			valid: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.q
			if got := validateQuestion(&q); got != tc.valid {
				t.Fatalf("validateQuestion = %v, want %v (err=%q)", got, tc.valid, q.Err)
			}
		})
	}
}

func TestValidateCollectsAllInvalidIndices(t *testing.T) {
	s, _, _ := hydratedStore(t)
	fillMeta(s)

	// Add two invalid locals around a valid one.
	s.AddQuestion() // index 2: empty mcq, invalid
	s.AddQuestion() // index 3
	makeValidEssay(t, s, 3)
	s.AddQuestion() // index 4: invalid

	res := s.Validate()
	if len(res.InvalidIndices) != 2 {
		t.Fatalf("expected 2 invalid questions, got %v", res.InvalidIndices)
	}
	if res.InvalidIndices[0] != 2 || res.InvalidIndices[1] != 4 {
		t.Fatalf("expected invalid indices [2 4], got %v", res.InvalidIndices)
	}
	if res.FirstInvalid != 2 {
		t.Fatalf("first invalid should be 2, got %d", res.FirstInvalid)
	}
	if res.OK() {
		t.Fatal("result must gate submission")
	}
}

func TestValidateMarksEverythingTouched(t *testing.T) {
	s, _, _ := hydratedStore(t)
	fillMeta(s)

	s.Validate()

	for i, q := range s.Questions() {
		if !q.Touched {
			t.Errorf("question %d not touched", i)
		}
		for j, a := range q.Answers {
			if !a.Touched {
				t.Errorf("answer %d/%d not touched", i, j)
			}
		}
	}
}

func TestValidateSkipsDeletedQuestions(t *testing.T) {
	s, _, _ := hydratedStore(t)
	fillMeta(s)

	// Break question 0, then delete it; the break must not gate.
	if err := s.SetQuestionText(0, ""); err != nil {
		t.Fatalf("SetQuestionText: %v", err)
	}
	if err := s.DeleteQuestion(0); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	res := s.Validate()
	if !res.OK() {
		t.Fatalf("deleted questions must not be validated: %+v", res)
	}
	if res.FirstInvalid != -1 {
		t.Fatalf("expected FirstInvalid -1, got %d", res.FirstInvalid)
	}
}

func TestValidateMetaRequiredFields(t *testing.T) {
	s, _, _ := hydratedStore(t)
	empty := ""
	zero := 0
	s.SetMeta(&model.UpdateAssignmentMetaRequest{Code: &empty, Name: &empty, DurationMinutes: &zero})

	res := s.Validate()
	for _, field := range []string{"code", "name", "duration_minutes"} {
		if res.MetaErrors[field] == "" {
			t.Errorf("expected a meta error for %s", field)
		}
	}
	if res.OK() {
		t.Fatal("meta errors must gate submission")
	}
}

func TestValidationDoesNotMutateContent(t *testing.T) {
	s, _, _ := hydratedStore(t)

	before := s.BuildPayload()
	s.Validate()
	after := s.BuildPayload()

	if len(before.Questions) != len(after.Questions) {
		t.Fatal("validation changed question structure")
	}
	for i := range before.Questions {
		b, a := before.Questions[i], after.Questions[i]
		if b.QuestionText != a.QuestionText || b.Order != a.Order || len(b.Answers) != len(a.Answers) {
			t.Fatalf("validation mutated question %d: %+v vs %+v", i, b, a)
		}
		for j := range b.Answers {
			if b.Answers[j].Text != a.Answers[j].Text || b.Answers[j].IsCorrect != a.Answers[j].IsCorrect {
				t.Fatalf("validation mutated answer %d/%d", i, j)
			}
		}
	}
}

func TestMCQCorrectnessGate(t *testing.T) {
	s, _, _ := newTestStore(t)
	fillMeta(s)
	if err := s.SetQuestionText(0, "Pick one"); err != nil {
		t.Fatalf("SetQuestionText: %v", err)
	}
	if err := s.SetQuestionPoints(0, 5); err != nil {
		t.Fatalf("SetQuestionPoints: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.AddAnswer(0); err != nil {
			t.Fatalf("AddAnswer: %v", err)
		}
	}
	if err := s.SetAnswerText(0, 0, "first"); err != nil {
		t.Fatalf("SetAnswerText: %v", err)
	}
	// Second answer left empty.

	if res := s.Validate(); res.OK() {
		t.Fatal("mcq with a blank answer must fail validation")
	}

	if err := s.SetAnswerText(0, 1, "second"); err != nil {
		t.Fatalf("SetAnswerText: %v", err)
	}
	if res := s.Validate(); res.OK() {
		t.Fatal("mcq without a correct answer must fail validation")
	}

	if err := s.SetCorrectAnswer(0, 0); err != nil {
		t.Fatalf("SetCorrectAnswer: %v", err)
	}
	if res := s.Validate(); !res.OK() {
		t.Fatalf("expected a passing draft, got %+v", res)
	}
}
