package model

import (
	"encoding/json"
	"time"
)

// AssessmentSubmission is one user's graded attempt; the unique index keeps it
// to one row per (user, assessment), duplicates surface as a conflict instead
// of an appended second attempt.
// swagger:model AssessmentSubmission
type AssessmentSubmission struct {
	BaseModel
	UserID       uint               `gorm:"uniqueIndex:idx_user_assessment;type:bigint unsigned" json:"userId"`
	User         *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AssessmentID uint               `gorm:"uniqueIndex:idx_user_assessment;type:bigint unsigned" json:"assessmentId"`
	Score        int                `gorm:"not null" json:"score"` // 0-100
	IsPassed     bool               `gorm:"default:false" json:"isPassed"`
	TimeSpent    int                `gorm:"default:0" json:"timeSpent"` // Seconds
	SubmittedAt  time.Time          `json:"submittedAt"`
	Answers      []SubmissionAnswer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
}

func (AssessmentSubmission) TableName() string {
	return "assessment_submissions"
}

// SubmissionAnswer stores one graded answer. Exactly one of SelectedAnswer or
// SelectedAnswers is populated depending on the question type.
// swagger:model SubmissionAnswer
type SubmissionAnswer struct {
	BaseModel
	SubmissionID    uint            `gorm:"index;type:bigint unsigned" json:"submissionId"`
	QuestionID      uint            `gorm:"index;type:bigint unsigned" json:"questionId"`
	IsCorrect       bool            `gorm:"default:false" json:"isCorrect"`
	SelectedAnswer  string          `gorm:"type:text" json:"selectedAnswer,omitempty"`
	SelectedAnswers json.RawMessage `gorm:"type:json" json:"selectedAnswers,omitempty"` // JSON: []string
}

func (SubmissionAnswer) TableName() string {
	return "submission_answers"
}
