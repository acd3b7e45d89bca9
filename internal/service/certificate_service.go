package service

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/monitoring"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

const credentialSuffixChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CertificateStore is the persistence surface the issuer needs; satisfied by
// repository.CertificateRepository.
type CertificateStore interface {
	CreateIfAbsent(cert *model.Certificate) (*model.Certificate, error)
	FindByTriple(userID, assessmentID, courseID uint) (*model.Certificate, error)
	FindByCredentialID(credentialID string) (*model.Certificate, error)
	ListByUser(userID uint) ([]model.Certificate, error)
	UpdateStatus(id uint, status string) error
}

type CertificateService struct {
	Store          CertificateStore
	AssessmentRepo *repository.AssessmentRepository
	CourseRepo     *repository.CourseRepository
	ValidityYears  int
}

func NewCertificateService(store CertificateStore, assessmentRepo *repository.AssessmentRepository, courseRepo *repository.CourseRepository, validityYears int) *CertificateService {
	if validityYears <= 0 {
		validityYears = 3
	}
	return &CertificateService{
		Store:          store,
		AssessmentRepo: assessmentRepo,
		CourseRepo:     courseRepo,
		ValidityYears:  validityYears,
	}
}

// Issue creates the certificate for a passed assessment, or returns the
// existing one unchanged. Both the submit path and the explicit generate path
// go through here, so there is exactly one issuance code path.
func (s *CertificateService) Issue(userID uint, assessment *model.Assessment, course *model.Course, score int) (*model.Certificate, error) {
	existing, err := s.Store.FindByTriple(userID, assessment.ID, course.ID)
	if err == nil && existing != nil {
		return existing, nil
	}

	now := time.Now()
	cert := &model.Certificate{
		UserID:       userID,
		AssessmentID: assessment.ID,
		CourseID:     course.ID,
		Title:        course.Title,
		CredentialID: NewCredentialID(course.ID, userID),
		Grade:        LetterGrade(score),
		Score:        score,
		Skills:       course.Skills,
		Issuer:       model.CertificateIssuer,
		Status:       model.CertificateIssued,
		IssueDate:    now,
		ExpiryDate:   now.AddDate(s.ValidityYears, 0, 0),
	}

	// The unique index on the triple absorbs the race between the pre-check
	// above and this insert; whoever loses gets the winner's row back.
	issued, err := s.Store.CreateIfAbsent(cert)
	if err != nil {
		return nil, err
	}
	if issued.CredentialID == cert.CredentialID {
		monitoring.CertificateCounter.Inc()
	}
	return issued, nil
}

// Generate handles POST /certificates/generate: the user asks for the
// certificate of an assessment they already passed.
func (s *CertificateService) Generate(userID, assessmentID, courseID uint) (*model.Certificate, error) {
	assessment, err := s.AssessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, util.ErrAssessmentNotFound
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	submission, err := s.AssessmentRepo.FindSubmission(userID, assessmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if !submission.IsPassed {
		return nil, util.ErrCertificateNotEarned
	}

	return s.Issue(userID, assessment, course, submission.Score)
}

func (s *CertificateService) ListByUser(userID uint) ([]model.Certificate, error) {
	return s.Store.ListByUser(userID)
}

func (s *CertificateService) Revoke(id uint) error {
	if err := s.Store.UpdateStatus(id, model.CertificateRevoked); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCertificateNotFound
		}
		return err
	}
	return nil
}

// VerifyResult is the public verification answer for a credential id.
type VerifyResult struct {
	Valid       bool               `json:"valid"`
	Message     string             `json:"message"`
	Certificate *model.Certificate `json:"certificate,omitempty"`
}

// Verify is public: a certificate is valid when it exists, has not been
// revoked, and has not expired.
func (s *CertificateService) Verify(credentialID string) (*VerifyResult, error) {
	cert, err := s.Store.FindByCredentialID(credentialID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &VerifyResult{Valid: false, Message: "certificate not found"}, nil
		}
		return nil, err
	}

	if cert.Status == model.CertificateRevoked {
		return &VerifyResult{Valid: false, Message: "certificate has been revoked", Certificate: cert}, nil
	}
	if time.Now().After(cert.ExpiryDate) {
		return &VerifyResult{Valid: false, Message: "certificate has expired", Certificate: cert}, nil
	}

	return &VerifyResult{Valid: true, Message: "certificate is valid", Certificate: cert}, nil
}

// NewCredentialID builds the human-readable credential identifier: a constant
// prefix, the last four digits of the course and user ids, and four random
// base-36 uppercase characters. Best-effort uniqueness; the column's unique
// constraint is the backstop.
func NewCredentialID(courseID, userID uint) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = credentialSuffixChars[rand.Intn(len(credentialSuffixChars))]
	}
	return fmt.Sprintf("EDU-%04d-%04d-%s", courseID%10000, userID%10000, suffix)
}
