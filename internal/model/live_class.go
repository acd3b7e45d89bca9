package model

import "time"

const (
	LiveClassScheduled = "scheduled"
	LiveClassLive      = "live"
	LiveClassEnded     = "ended"
)

// LiveClass is a scheduled real-time session for a course. Only signaling is
// handled server side; media streams never transit the backend.
// swagger:model LiveClass
type LiveClass struct {
	BaseModel
	CourseID    uint       `gorm:"index;type:bigint unsigned" json:"courseId"`
	HostID      uint       `gorm:"index;type:bigint unsigned" json:"hostId"`
	Host        *User      `gorm:"foreignKey:HostID" json:"host,omitempty"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	RoomID      string     `gorm:"size:36;uniqueIndex" json:"roomId"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	Duration    int        `gorm:"default:60" json:"duration"` // Minutes
	Status      string     `gorm:"size:20;default:'scheduled'" json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

func (LiveClass) TableName() string {
	return "live_classes"
}
