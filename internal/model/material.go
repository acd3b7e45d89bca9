package model

// StudyMaterial is a shared file attached to a course.
// swagger:model StudyMaterial
type StudyMaterial struct {
	UUIDBase
	UploaderID   uint    `gorm:"index;type:bigint unsigned" json:"uploaderId"`
	Uploader     *User   `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	CourseID     uint    `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title        string  `gorm:"size:255;not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	FileName     string  `gorm:"size:255" json:"fileName"`
	FileURL      string  `gorm:"size:512" json:"fileUrl"`
	ContentType  string  `gorm:"size:100" json:"contentType"`
	Size         int64   `gorm:"default:0" json:"size"`
	Duration     float64 `gorm:"default:0" json:"duration"` // Seconds, video materials only
	ThumbnailURL string  `gorm:"size:512" json:"thumbnailUrl,omitempty"`
	Downloads    int     `gorm:"default:0" json:"downloads"`
}

func (StudyMaterial) TableName() string {
	return "study_materials"
}
