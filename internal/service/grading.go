package service

import (
	"bytes"
	"educonnect_backend/internal/model"
	"encoding/json"
	"math"
	"strconv"
)

// The grading pipeline: a submitted answers payload is decoded into raw
// per-question values, each value is normalized to a flat list of strings,
// graded against the question's answer key, and the verdicts are aggregated
// into a 0-100 score. Malformed or missing answers are never an error; they
// grade as incorrect.

// submittedAnswer is one element of the array-shaped answers payload.
type submittedAnswer struct {
	QuestionID      uint            `json:"questionId"`
	SelectedAnswer  json.RawMessage `json:"selectedAnswer,omitempty"`
	SelectedAnswers json.RawMessage `json:"selectedAnswers,omitempty"`
}

// DecodeAnswers accepts both payload shapes the client may send: an array of
// {questionId, selectedAnswer|selectedAnswers} objects, or an object keyed by
// question id whose values are scalars, arrays, or index-keyed objects.
// Returns the raw value per question id.
func DecodeAnswers(payload json.RawMessage) (map[uint]json.RawMessage, error) {
	result := make(map[uint]json.RawMessage)
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return result, nil
	}

	if trimmed[0] == '[' {
		var items []submittedAnswer
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.QuestionID == 0 {
				continue
			}
			if len(item.SelectedAnswers) > 0 && !bytes.Equal(item.SelectedAnswers, []byte("null")) {
				result[item.QuestionID] = item.SelectedAnswers
			} else {
				result[item.QuestionID] = item.SelectedAnswer
			}
		}
		return result, nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &byID); err != nil {
		return nil, err
	}
	for key, raw := range byID {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			continue
		}
		result[uint(id)] = raw
	}
	return result, nil
}

// NormalizeValues converts one raw answer value into the canonical flat list
// of strings: arrays are flattened one level, objects contribute their values
// in insertion order, scalars become a single-element list, and an absent or
// null value becomes an empty list (no selection).
func NormalizeValues(raw json.RawMessage) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil
		}
		var values []string
		for _, elem := range elems {
			inner := bytes.TrimSpace(elem)
			if len(inner) > 0 && inner[0] == '[' {
				// flatten one level only
				var nested []json.RawMessage
				if err := json.Unmarshal(inner, &nested); err == nil {
					for _, n := range nested {
						values = append(values, stringifyScalar(n))
					}
					continue
				}
			}
			values = append(values, stringifyScalar(elem))
		}
		return values
	case '{':
		return objectValuesInOrder(trimmed)
	default:
		return []string{stringifyScalar(trimmed)}
	}
}

// objectValuesInOrder walks an object token by token so values come out in the
// order the client wrote them; encoding/json maps would lose that.
func objectValuesInOrder(raw []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var values []string
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return values
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return values
		}
		values = append(values, stringifyScalar(val))
	}
	return values
}

// stringifyScalar renders one JSON value as the string used for comparison:
// strings verbatim, numbers and booleans as their literals, null as empty.
func stringifyScalar(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return string(trimmed)
}

// GradedAnswer is one question's verdict plus the answer shaped for storage:
// single-select values in SelectedAnswer, multi-select in SelectedAnswers.
type GradedAnswer struct {
	QuestionID      uint
	IsCorrect       bool
	SelectedAnswer  string
	SelectedAnswers []string
}

// GradeQuestion compares a normalized answer against the question's answer
// key. Unknown question types grade as incorrect rather than erroring.
func GradeQuestion(q *model.AssessmentQuestion, values []string) GradedAnswer {
	graded := GradedAnswer{QuestionID: q.ID}

	switch q.QuestionType {
	case model.QuestionMultipleChoice, model.QuestionTrueFalse:
		selected := ""
		if len(values) > 0 {
			selected = values[0]
		}
		graded.SelectedAnswer = selected
		graded.IsCorrect = selected == q.CorrectAnswer

	case model.QuestionMultipleSelect:
		graded.SelectedAnswers = values
		var correct []string
		if len(q.CorrectAnswers) > 0 {
			if err := json.Unmarshal(q.CorrectAnswers, &correct); err != nil {
				return graded
			}
		}
		graded.IsCorrect = setEqual(values, correct)
	}

	return graded
}

// setEqual is symmetric containment: duplicates collapse, order is ignored,
// and two empty sets are equal.
func setEqual(a, b []string) bool {
	setA := make(map[string]bool, len(a))
	for _, v := range a {
		setA[v] = true
	}
	setB := make(map[string]bool, len(b))
	for _, v := range b {
		setB[v] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for v := range setA {
		if !setB[v] {
			return false
		}
	}
	return true
}

// ComputeScore rounds correct/total to a 0-100 integer. An assessment with no
// questions scores 0 rather than dividing by zero.
func ComputeScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// LetterGrade maps the stored percentage score to a certificate grade. The
// percentage score is the single basis for grades everywhere.
func LetterGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradeResult aggregates one full grading pass.
type GradeResult struct {
	Answers   []GradedAnswer
	Correct   int
	Incorrect int
	Total     int
	Score     int
}

// GradeAssessment runs the full pipeline over every question of the
// assessment. Questions without a submitted answer grade as incorrect.
func GradeAssessment(questions []model.AssessmentQuestion, payload json.RawMessage) (*GradeResult, error) {
	byQuestion, err := DecodeAnswers(payload)
	if err != nil {
		return nil, err
	}

	result := &GradeResult{Total: len(questions)}
	for i := range questions {
		q := &questions[i]
		values := NormalizeValues(byQuestion[q.ID])
		graded := GradeQuestion(q, values)
		if graded.IsCorrect {
			result.Correct++
		} else {
			result.Incorrect++
		}
		result.Answers = append(result.Answers, graded)
	}

	result.Score = ComputeScore(result.Correct, result.Total)
	return result, nil
}
