package model

import (
	"encoding/json"
	"time"
)

const (
	CertificateIssued  = "issued"
	CertificateRevoked = "revoked"
)

// CertificateIssuer is printed on every certificate.
const CertificateIssuer = "EduConnect"

// Certificate is issued at most once per (user, assessment, course); the
// unique index makes issuance idempotent under concurrent requests.
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID       uint            `gorm:"uniqueIndex:idx_user_assessment_course;type:bigint unsigned" json:"userId"`
	AssessmentID uint            `gorm:"uniqueIndex:idx_user_assessment_course;type:bigint unsigned" json:"assessmentId"`
	CourseID     uint            `gorm:"uniqueIndex:idx_user_assessment_course;type:bigint unsigned" json:"courseId"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	CredentialID string          `gorm:"size:50;unique;not null" json:"credentialId"`
	Grade        string          `gorm:"size:2;not null" json:"grade"` // A-F
	Score        int             `gorm:"not null" json:"score"`        // 0-100
	Skills       json.RawMessage `gorm:"type:json" json:"skills"`      // JSON: []string, copied from the course
	Issuer       string          `gorm:"size:50;default:'EduConnect'" json:"issuer"`
	Status       string          `gorm:"size:20;default:'issued'" json:"status"` // issued, revoked
	IssueDate    time.Time       `json:"issueDate"`
	ExpiryDate   time.Time       `json:"expiryDate"`
}

func (Certificate) TableName() string {
	return "certificates"
}
