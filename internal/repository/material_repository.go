package repository

import (
	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(m *model.StudyMaterial) error {
	return r.DB.Create(m).Error
}

func (r *MaterialRepository) FindByID(id string) (*model.StudyMaterial, error) {
	var m model.StudyMaterial
	err := r.DB.Preload("Uploader").Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) ListByCourse(courseID uint, page, limit int) ([]model.StudyMaterial, int64, error) {
	var ms []model.StudyMaterial
	var total int64
	query := r.DB.Model(&model.StudyMaterial{}).Where("course_id = ?", courseID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Uploader").Order("created_at desc").Offset(offset).Limit(limit).Find(&ms).Error
	return ms, total, err
}

func (r *MaterialRepository) IncrementDownloads(id string) error {
	return r.DB.Model(&model.StudyMaterial{}).Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}

func (r *MaterialRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.StudyMaterial{}).Error
}
