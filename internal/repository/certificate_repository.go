package repository

import (
	"educonnect_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// CreateIfAbsent inserts the certificate unless one already exists for the
// (user, assessment, course) triple, then returns the row that won. The
// INSERT ... ON CONFLICT DO NOTHING against the unique index makes issuance
// idempotent even when the submit path and the explicit generate path race.
func (r *CertificateRepository) CreateIfAbsent(cert *model.Certificate) (*model.Certificate, error) {
	err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(cert).Error
	if err != nil {
		return nil, err
	}
	return r.FindByTriple(cert.UserID, cert.AssessmentID, cert.CourseID)
}

func (r *CertificateRepository) FindByTriple(userID, assessmentID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ? AND assessment_id = ? AND course_id = ?", userID, assessmentID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByCredentialID(credentialID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("credential_id = ?", credentialID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Where("user_id = ?", userID).Order("issue_date desc").Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) UpdateStatus(id uint, status string) error {
	result := r.DB.Model(&model.Certificate{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
