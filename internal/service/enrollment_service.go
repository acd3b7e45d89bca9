package service

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	Repo       *repository.EnrollmentRepository
	CourseRepo *repository.CourseRepository
}

func NewEnrollmentService(repo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{Repo: repo, CourseRepo: courseRepo}
}

func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotPublished
	}

	if existing, err := s.Repo.FindByUserAndCourse(userID, courseID); err == nil && existing != nil {
		return nil, util.ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentActive,
	}
	if err := s.Repo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListMyEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.Repo.ListByUser(userID)
}

func (s *EnrollmentService) ListCourseEnrollments(courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	return s.Repo.ListByCourse(courseID, page, limit)
}

// CompleteLesson records a lesson completion and recomputes the enrollment's
// progress percentage. Completing an already-completed lesson is a no-op.
func (s *EnrollmentService) CompleteLesson(userID, lessonID uint, timeSpent int) (*model.Enrollment, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.Repo.FindByUserAndCourse(userID, lesson.CourseID)
	if err != nil {
		return nil, util.ErrNotEnrolled
	}

	if _, err := s.Repo.FindLessonProgress(userID, lessonID); err == nil {
		return enrollment, nil
	}

	progress := &model.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    lesson.CourseID,
		TimeSpent:   timeSpent,
		CompletedAt: time.Now(),
	}
	if err := s.Repo.CreateLessonProgress(progress); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}

	return s.refreshProgress(enrollment)
}

func (s *EnrollmentService) refreshProgress(enrollment *model.Enrollment) (*model.Enrollment, error) {
	totalLessons, err := s.CourseRepo.CountLessons(enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Repo.CountCompletedLessons(enrollment.UserID, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	enrollment.Progress = ComputeScore(int(completed), int(totalLessons))
	if totalLessons > 0 && completed >= totalLessons && enrollment.Status != model.EnrollmentCompleted {
		now := time.Now()
		enrollment.Status = model.EnrollmentCompleted
		enrollment.CompletedAt = &now
	}
	if err := s.Repo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CourseProgress is the per-lesson view of a user's position in a course.
type CourseProgress struct {
	Enrollment       *model.Enrollment `json:"enrollment"`
	TotalLessons     int               `json:"totalLessons"`
	CompletedLessons int               `json:"completedLessons"`
	LessonIDs        []uint            `json:"completedLessonIds"`
}

func (s *EnrollmentService) GetCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	enrollment, err := s.Repo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, util.ErrNotEnrolled
	}

	totalLessons, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return nil, err
	}
	completions, err := s.Repo.ListLessonProgress(userID, courseID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(completions))
	for i, c := range completions {
		ids[i] = c.LessonID
	}

	return &CourseProgress{
		Enrollment:       enrollment,
		TotalLessons:     int(totalLessons),
		CompletedLessons: len(completions),
		LessonIDs:        ids,
	}, nil
}
