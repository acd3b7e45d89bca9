package model

import "time"

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
)

// Enrollment is the per-user course record; one row per (user, course).
// Course progress and assessment status for a user derive from this and its
// lesson completions, never from shared state on the course itself.
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned" json:"userId"`
	CourseID    uint       `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned" json:"courseId"`
	Course      *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Progress    int        `gorm:"default:0" json:"progress"` // 0-100, completed lessons / total lessons
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress marks a lesson completed by a user; one row per (user, lesson).
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_lesson;type:bigint unsigned" json:"userId"`
	LessonID    uint      `gorm:"uniqueIndex:idx_user_lesson;type:bigint unsigned" json:"lessonId"`
	CourseID    uint      `gorm:"index;type:bigint unsigned" json:"courseId"`
	TimeSpent   int       `gorm:"default:0" json:"timeSpent"` // Seconds
	CompletedAt time.Time `json:"completedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
