package model

import (
	"encoding/json"
	"time"
)

const (
	AssessmentQuiz       = "quiz"
	AssessmentExam       = "exam"
	AssessmentAssignment = "assignment"
)

// Question types as they appear on the wire.
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionMultipleSelect = "multiple-select"
	QuestionTrueFalse      = "true-false"
)

// Per-user assessment status, derived from the presence of a submission.
const (
	AssessmentNotStarted = "not_started"
	AssessmentCompleted  = "completed"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	CourseID     uint                 `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title        string               `gorm:"size:255;not null" json:"title"`
	Description  string               `gorm:"type:text" json:"description"`
	Category     string               `gorm:"size:100" json:"category"`
	Type         string               `gorm:"size:20;default:'quiz'" json:"type"` // quiz, exam, assignment
	TimeLimit    int                  `gorm:"default:0" json:"timeLimit"`         // Minutes
	DueDate      *time.Time           `json:"dueDate,omitempty"`
	PassingScore int                  `gorm:"default:70" json:"passingScore"` // 0-100
	IsPublished  bool                 `gorm:"default:false" json:"isPublished"`
	Questions    []AssessmentQuestion `gorm:"foreignKey:AssessmentID" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// swagger:model AssessmentQuestion
type AssessmentQuestion struct {
	BaseModel
	AssessmentID   uint            `gorm:"index;type:bigint unsigned" json:"assessmentId"`
	QuestionType   string          `gorm:"size:50;not null" json:"questionType"` // multiple-choice, multiple-select, true-false
	Content        string          `gorm:"type:text;not null" json:"content"`    // Stem
	Options        json.RawMessage `gorm:"type:json" json:"options"`             // JSON: []string, ordered
	CorrectAnswer  string          `gorm:"type:text" json:"correctAnswer,omitempty"`
	CorrectAnswers json.RawMessage `gorm:"type:json" json:"correctAnswers,omitempty"` // JSON: []string, multiple-select only
	Category       string          `gorm:"size:100" json:"category"`                  // Used for strengths/weaknesses breakdown
	Explanation    string          `gorm:"type:text" json:"explanation"`
	Order          int             `gorm:"default:0" json:"order"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}
