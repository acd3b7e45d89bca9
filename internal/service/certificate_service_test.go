package service

import (
	"educonnect_backend/internal/model"
	"regexp"
	"testing"
	"time"

	"gorm.io/gorm"
)

// fakeCertificateStore keeps certificates in memory and enforces the same
// triple uniqueness the real table does.
type fakeCertificateStore struct {
	certs  []*model.Certificate
	nextID uint
}

func (f *fakeCertificateStore) CreateIfAbsent(cert *model.Certificate) (*model.Certificate, error) {
	if existing, err := f.FindByTriple(cert.UserID, cert.AssessmentID, cert.CourseID); err == nil {
		return existing, nil
	}
	f.nextID++
	cert.ID = f.nextID
	f.certs = append(f.certs, cert)
	return cert, nil
}

func (f *fakeCertificateStore) FindByTriple(userID, assessmentID, courseID uint) (*model.Certificate, error) {
	for _, c := range f.certs {
		if c.UserID == userID && c.AssessmentID == assessmentID && c.CourseID == courseID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertificateStore) FindByCredentialID(credentialID string) (*model.Certificate, error) {
	for _, c := range f.certs {
		if c.CredentialID == credentialID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertificateStore) ListByUser(userID uint) ([]model.Certificate, error) {
	var out []model.Certificate
	for _, c := range f.certs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCertificateStore) UpdateStatus(id uint, status string) error {
	for _, c := range f.certs {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func testAssessmentAndCourse() (*model.Assessment, *model.Course) {
	a := &model.Assessment{Title: "Go Fundamentals Final", PassingScore: 70}
	a.ID = 12
	c := &model.Course{Title: "Go Fundamentals"}
	c.ID = 34
	return a, c
}

func TestIssueIdempotent(t *testing.T) {
	store := &fakeCertificateStore{}
	svc := NewCertificateService(store, nil, nil, 3)
	assessment, course := testAssessmentAndCourse()

	first, err := svc.Issue(7, assessment, course, 85)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	second, err := svc.Issue(7, assessment, course, 85)
	if err != nil {
		t.Fatalf("second Issue() error = %v", err)
	}

	if first.CredentialID != second.CredentialID {
		t.Errorf("repeated issuance produced different credentials: %s vs %s", first.CredentialID, second.CredentialID)
	}
	if len(store.certs) != 1 {
		t.Errorf("expected one stored certificate, got %d", len(store.certs))
	}
}

func TestIssueFields(t *testing.T) {
	store := &fakeCertificateStore{}
	svc := NewCertificateService(store, nil, nil, 3)
	assessment, course := testAssessmentAndCourse()

	cert, err := svc.Issue(7, assessment, course, 85)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if cert.Title != course.Title {
		t.Errorf("Title = %q, want course title %q", cert.Title, course.Title)
	}
	if cert.Grade != "B" {
		t.Errorf("Grade = %q, want B for score 85", cert.Grade)
	}
	if cert.Issuer != model.CertificateIssuer {
		t.Errorf("Issuer = %q, want %q", cert.Issuer, model.CertificateIssuer)
	}
	if cert.Status != model.CertificateIssued {
		t.Errorf("Status = %q, want %q", cert.Status, model.CertificateIssued)
	}

	wantExpiry := cert.IssueDate.AddDate(3, 0, 0)
	if !cert.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("ExpiryDate = %v, want issue date + 3 years (%v)", cert.ExpiryDate, wantExpiry)
	}
}

func TestNewCredentialIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^EDU-\d{4}-\d{4}-[0-9A-Z]{4}$`)

	tests := []struct {
		courseID, userID uint
	}{
		{34, 7},
		{0, 0},
		{99999, 123456}, // ids wrap at four digits
	}

	for _, tt := range tests {
		id := NewCredentialID(tt.courseID, tt.userID)
		if !pattern.MatchString(id) {
			t.Errorf("NewCredentialID(%d, %d) = %q, want match for %s", tt.courseID, tt.userID, id, pattern)
		}
	}
}

func TestVerify(t *testing.T) {
	store := &fakeCertificateStore{}
	svc := NewCertificateService(store, nil, nil, 3)
	assessment, course := testAssessmentAndCourse()

	cert, err := svc.Issue(7, assessment, course, 92)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	result, err := svc.Verify(cert.CredentialID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !result.Valid {
		t.Errorf("freshly issued certificate should verify, got %q", result.Message)
	}
	if result.Certificate == nil || result.Certificate.CredentialID != cert.CredentialID {
		t.Error("Verify() should return the certificate")
	}
}

func TestVerifyNotFound(t *testing.T) {
	svc := NewCertificateService(&fakeCertificateStore{}, nil, nil, 3)

	result, err := svc.Verify("EDU-0000-0000-ZZZZ")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if result.Valid {
		t.Error("unknown credential should not verify")
	}
	if result.Certificate != nil {
		t.Error("unknown credential should not leak a certificate")
	}
}

func TestVerifyRevoked(t *testing.T) {
	store := &fakeCertificateStore{}
	svc := NewCertificateService(store, nil, nil, 3)
	assessment, course := testAssessmentAndCourse()

	cert, _ := svc.Issue(7, assessment, course, 92)
	if err := svc.Revoke(cert.ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	result, err := svc.Verify(cert.CredentialID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if result.Valid {
		t.Error("revoked certificate should not verify")
	}
	if result.Message != "certificate has been revoked" {
		t.Errorf("Message = %q, want revocation message", result.Message)
	}
}

func TestVerifyExpired(t *testing.T) {
	store := &fakeCertificateStore{}
	svc := NewCertificateService(store, nil, nil, 3)

	expired := &model.Certificate{
		UserID:       7,
		AssessmentID: 12,
		CourseID:     34,
		CredentialID: "EDU-0034-0007-TEST",
		Status:       model.CertificateIssued,
		IssueDate:    time.Now().AddDate(-4, 0, 0),
		ExpiryDate:   time.Now().AddDate(-1, 0, 0),
	}
	store.CreateIfAbsent(expired)

	result, err := svc.Verify(expired.CredentialID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if result.Valid {
		t.Error("expired certificate should not verify")
	}
	if result.Message != "certificate has expired" {
		t.Errorf("Message = %q, want expiry message", result.Message)
	}
}

func TestRevokeMissing(t *testing.T) {
	svc := NewCertificateService(&fakeCertificateStore{}, nil, nil, 3)
	if err := svc.Revoke(999); err == nil {
		t.Error("Revoke() of a missing certificate should error")
	}
}
