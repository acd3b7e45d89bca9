package service

import (
	"educonnect_backend/internal/model"
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodeAnswers(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    map[uint]string
	}{
		{
			name:    "array shape with single answers",
			payload: `[{"questionId":1,"selectedAnswer":"a"},{"questionId":2,"selectedAnswer":"c"}]`,
			want:    map[uint]string{1: `"a"`, 2: `"c"`},
		},
		{
			name:    "array shape prefers selectedAnswers when present",
			payload: `[{"questionId":3,"selectedAnswer":"x","selectedAnswers":["a","b"]}]`,
			want:    map[uint]string{3: `["a","b"]`},
		},
		{
			name:    "object keyed by question id",
			payload: `{"1":"b","2":["a","c"]}`,
			want:    map[uint]string{1: `"b"`, 2: `["a","c"]`},
		},
		{
			name:    "non-numeric keys are skipped",
			payload: `{"1":"b","abc":"c"}`,
			want:    map[uint]string{1: `"b"`},
		},
		{
			name:    "empty payload",
			payload: ``,
			want:    map[uint]string{},
		},
		{
			name:    "null payload",
			payload: `null`,
			want:    map[uint]string{},
		},
		{
			name:    "array entries without question id are skipped",
			payload: `[{"selectedAnswer":"a"},{"questionId":5,"selectedAnswer":"b"}]`,
			want:    map[uint]string{5: `"b"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAnswers(json.RawMessage(tt.payload))
			if err != nil {
				t.Fatalf("DecodeAnswers() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeAnswers() returned %d entries, want %d", len(got), len(tt.want))
			}
			for id, raw := range tt.want {
				if string(got[id]) != raw {
					t.Errorf("DecodeAnswers()[%d] = %s, want %s", id, got[id], raw)
				}
			}
		})
	}
}

func TestDecodeAnswersMalformed(t *testing.T) {
	if _, err := DecodeAnswers(json.RawMessage(`[{"questionId":`)); err == nil {
		t.Error("DecodeAnswers() expected error for truncated payload")
	}
	if _, err := DecodeAnswers(json.RawMessage(`42`)); err == nil {
		t.Error("DecodeAnswers() expected error for scalar payload")
	}
}

func TestNormalizeValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"string scalar", `"b"`, []string{"b"}},
		{"number scalar", `2`, []string{"2"}},
		{"float keeps minimal form", `2.5`, []string{"2.5"}},
		{"bool scalar", `true`, []string{"true"}},
		{"null is no selection", `null`, nil},
		{"empty is no selection", ``, nil},
		{"flat array", `["a","c"]`, []string{"a", "c"}},
		{"mixed array", `["a",1,true]`, []string{"a", "1", "true"}},
		{"nested array flattens one level", `[["a","b"],"c"]`, []string{"a", "b", "c"}},
		{"object values in insertion order", `{"0":"b","1":"a"}`, []string{"b", "a"}},
		{"object order is source order not key order", `{"1":"a","0":"b"}`, []string{"a", "b"}},
		{"empty array", `[]`, nil},
		{"empty object", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValues(json.RawMessage(tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeValues(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGradeQuestionSingleChoice(t *testing.T) {
	q := &model.AssessmentQuestion{
		QuestionType:  model.QuestionMultipleChoice,
		CorrectAnswer: "b",
	}
	q.ID = 1

	tests := []struct {
		name    string
		values  []string
		correct bool
	}{
		{"correct answer", []string{"b"}, true},
		{"wrong answer", []string{"a"}, false},
		{"no selection", nil, false},
		{"first value wins", []string{"b", "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeQuestion(q, tt.values)
			if got.IsCorrect != tt.correct {
				t.Errorf("GradeQuestion(%v).IsCorrect = %v, want %v", tt.values, got.IsCorrect, tt.correct)
			}
		})
	}
}

func TestGradeQuestionTrueFalse(t *testing.T) {
	q := &model.AssessmentQuestion{
		QuestionType:  model.QuestionTrueFalse,
		CorrectAnswer: "true",
	}
	q.ID = 2

	if got := GradeQuestion(q, []string{"true"}); !got.IsCorrect {
		t.Error("boolean true normalized to \"true\" should match the key")
	}
	if got := GradeQuestion(q, []string{"false"}); got.IsCorrect {
		t.Error("wrong boolean should not match")
	}
}

func TestGradeQuestionMultipleSelect(t *testing.T) {
	q := &model.AssessmentQuestion{
		QuestionType:   model.QuestionMultipleSelect,
		CorrectAnswers: json.RawMessage(`["a","b"]`),
	}
	q.ID = 3

	tests := []struct {
		name    string
		values  []string
		correct bool
	}{
		{"exact match", []string{"a", "b"}, true},
		{"order does not matter", []string{"b", "a"}, true},
		{"duplicates collapse", []string{"a", "a", "b"}, true},
		{"missing option", []string{"a"}, false},
		{"extra option", []string{"a", "b", "c"}, false},
		{"no selection", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeQuestion(q, tt.values)
			if got.IsCorrect != tt.correct {
				t.Errorf("GradeQuestion(%v).IsCorrect = %v, want %v", tt.values, got.IsCorrect, tt.correct)
			}
		})
	}
}

func TestGradeQuestionMultipleSelectEmptyKey(t *testing.T) {
	q := &model.AssessmentQuestion{QuestionType: model.QuestionMultipleSelect}
	q.ID = 4

	if got := GradeQuestion(q, nil); !got.IsCorrect {
		t.Error("empty selection against empty key should grade correct")
	}
	if got := GradeQuestion(q, []string{"a"}); got.IsCorrect {
		t.Error("selection against empty key should grade incorrect")
	}
}

func TestGradeQuestionUnknownType(t *testing.T) {
	q := &model.AssessmentQuestion{QuestionType: "essay", CorrectAnswer: "x"}
	q.ID = 5

	if got := GradeQuestion(q, []string{"x"}); got.IsCorrect {
		t.Error("unknown question type must grade incorrect, not error")
	}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{7, 10, 70},
		{1, 6, 17},
	}

	for _, tt := range tests {
		if got := ComputeScore(tt.correct, tt.total); got != tt.want {
			t.Errorf("ComputeScore(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A"}, {90, "A"}, {89, "B"}, {80, "B"},
		{79, "C"}, {70, "C"}, {69, "D"}, {60, "D"},
		{59, "F"}, {0, "F"},
	}

	for _, tt := range tests {
		if got := LetterGrade(tt.score); got != tt.want {
			t.Errorf("LetterGrade(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func newQuestion(id uint, qtype, answer string, answers string) model.AssessmentQuestion {
	q := model.AssessmentQuestion{
		QuestionType:  qtype,
		CorrectAnswer: answer,
	}
	if answers != "" {
		q.CorrectAnswers = json.RawMessage(answers)
	}
	q.ID = id
	return q
}

func TestGradeAssessmentArrayPayload(t *testing.T) {
	questions := []model.AssessmentQuestion{
		newQuestion(1, model.QuestionMultipleChoice, "b", ""),
		newQuestion(2, model.QuestionMultipleSelect, "", `["a","c"]`),
		newQuestion(3, model.QuestionTrueFalse, "false", ""),
	}
	payload := json.RawMessage(`[
		{"questionId":1,"selectedAnswer":"b"},
		{"questionId":2,"selectedAnswers":["c","a"]},
		{"questionId":3,"selectedAnswer":false}
	]`)

	result, err := GradeAssessment(questions, payload)
	if err != nil {
		t.Fatalf("GradeAssessment() error = %v", err)
	}
	if result.Correct != 3 || result.Incorrect != 0 {
		t.Errorf("got %d correct %d incorrect, want 3/0", result.Correct, result.Incorrect)
	}
	if result.Score != 100 {
		t.Errorf("Score = %d, want 100", result.Score)
	}
}

func TestGradeAssessmentObjectPayload(t *testing.T) {
	questions := []model.AssessmentQuestion{
		newQuestion(1, model.QuestionMultipleChoice, "b", ""),
		newQuestion(2, model.QuestionMultipleSelect, "", `["a","b"]`),
		newQuestion(3, model.QuestionMultipleChoice, "d", ""),
	}
	// Multi-select sent as an index-keyed object, the shape some clients
	// produce when serializing arrays.
	payload := json.RawMessage(`{"1":"b","2":{"0":"b","1":"a"},"3":"a"}`)

	result, err := GradeAssessment(questions, payload)
	if err != nil {
		t.Fatalf("GradeAssessment() error = %v", err)
	}
	if result.Correct != 2 || result.Incorrect != 1 {
		t.Errorf("got %d correct %d incorrect, want 2/1", result.Correct, result.Incorrect)
	}
	if result.Score != 67 {
		t.Errorf("Score = %d, want 67", result.Score)
	}
}

func TestGradeAssessmentMissingAnswers(t *testing.T) {
	questions := []model.AssessmentQuestion{
		newQuestion(1, model.QuestionMultipleChoice, "a", ""),
		newQuestion(2, model.QuestionMultipleChoice, "b", ""),
	}

	result, err := GradeAssessment(questions, json.RawMessage(`{"1":"a"}`))
	if err != nil {
		t.Fatalf("GradeAssessment() error = %v", err)
	}
	if result.Correct != 1 || result.Incorrect != 1 {
		t.Errorf("got %d correct %d incorrect, want 1/1", result.Correct, result.Incorrect)
	}
	if result.Score != 50 {
		t.Errorf("Score = %d, want 50", result.Score)
	}
	if len(result.Answers) != 2 {
		t.Fatalf("expected a verdict per question, got %d", len(result.Answers))
	}
}

func TestGradeAssessmentNoQuestions(t *testing.T) {
	result, err := GradeAssessment(nil, json.RawMessage(`{"1":"a"}`))
	if err != nil {
		t.Fatalf("GradeAssessment() error = %v", err)
	}
	if result.Score != 0 {
		t.Errorf("empty assessment Score = %d, want 0", result.Score)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
}

func TestGradeAssessmentShapeInvariance(t *testing.T) {
	questions := []model.AssessmentQuestion{
		newQuestion(1, model.QuestionMultipleChoice, "b", ""),
		newQuestion(2, model.QuestionMultipleSelect, "", `["a","c"]`),
	}

	payloads := []string{
		`[{"questionId":1,"selectedAnswer":"b"},{"questionId":2,"selectedAnswers":["a","c"]}]`,
		`{"1":"b","2":["a","c"]}`,
		`{"1":"b","2":{"0":"a","1":"c"}}`,
	}

	for _, p := range payloads {
		result, err := GradeAssessment(questions, json.RawMessage(p))
		if err != nil {
			t.Fatalf("GradeAssessment(%s) error = %v", p, err)
		}
		if result.Score != 100 {
			t.Errorf("payload %s scored %d, want 100 regardless of shape", p, result.Score)
		}
	}
}
