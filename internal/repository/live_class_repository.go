package repository

import (
	"educonnect_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type LiveClassRepository struct {
	DB *gorm.DB
}

func NewLiveClassRepository(db *gorm.DB) *LiveClassRepository {
	return &LiveClassRepository{DB: db}
}

func (r *LiveClassRepository) Create(lc *model.LiveClass) error {
	return r.DB.Create(lc).Error
}

func (r *LiveClassRepository) FindByID(id uint) (*model.LiveClass, error) {
	var lc model.LiveClass
	err := r.DB.Preload("Host").First(&lc, id).Error
	return &lc, err
}

func (r *LiveClassRepository) List(courseID uint, status string, page, limit int) ([]model.LiveClass, int64, error) {
	var lcs []model.LiveClass
	var total int64
	query := r.DB.Model(&model.LiveClass{})
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Host").Order("scheduled_at desc").Offset(offset).Limit(limit).Find(&lcs).Error
	return lcs, total, err
}

func (r *LiveClassRepository) Update(lc *model.LiveClass) error {
	return r.DB.Save(lc).Error
}

func (r *LiveClassRepository) MarkStarted(id uint) error {
	now := time.Now()
	return r.DB.Model(&model.LiveClass{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.LiveClassLive, "started_at": &now}).Error
}

func (r *LiveClassRepository) MarkEnded(id uint) error {
	now := time.Now()
	return r.DB.Model(&model.LiveClass{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.LiveClassEnded, "ended_at": &now}).Error
}
