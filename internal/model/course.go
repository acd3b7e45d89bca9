package model

import "encoding/json"

// swagger:model Course
type Course struct {
	BaseModel
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Category     string          `gorm:"size:100;index" json:"category"`
	Level        string          `gorm:"size:50" json:"level"` // beginner, intermediate, advanced
	Skills       json.RawMessage `gorm:"type:json" json:"skills"` // JSON: []string, copied onto certificates
	InstructorID uint            `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Instructor   *User           `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	IsPublished  bool            `gorm:"default:false" json:"isPublished"`
	Lessons      []Lesson        `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	VideoURL string `gorm:"size:512" json:"videoUrl"`
	Duration int    `gorm:"default:0" json:"duration"` // Minutes
	Order    int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
