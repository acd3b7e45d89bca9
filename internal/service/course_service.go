package service

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"encoding/json"
)

type CourseService struct {
	Repo *repository.CourseRepository
}

func NewCourseService(repo *repository.CourseRepository) *CourseService {
	return &CourseService{Repo: repo}
}

type CourseRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Level       string          `json:"level"`
	Skills      json.RawMessage `json:"skills"`
	IsPublished bool            `json:"isPublished"`
}

func (s *CourseService) Create(instructorID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Skills:       req.Skills,
		InstructorID: instructorID,
		IsPublished:  req.IsPublished,
	}
	if err := s.Repo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(id, requesterID uint, isAdmin bool, req CourseRequest) (*model.Course, error) {
	course, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if course.InstructorID != requesterID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	course.Level = req.Level
	course.Skills = req.Skills
	course.IsPublished = req.IsPublished
	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(id, requesterID uint, isAdmin bool) error {
	course, err := s.Repo.FindByID(id)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if course.InstructorID != requesterID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(id)
}

func (s *CourseService) List(page, limit int, category string, publishedOnly bool) ([]model.Course, int64, error) {
	return s.Repo.List(page, limit, category, publishedOnly)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.Repo.FindByIDWithLessons(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.Repo.ListByInstructor(instructorID)
}

type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

func (s *CourseService) AddLesson(courseID, requesterID uint, isAdmin bool, req LessonRequest) (*model.Lesson, error) {
	course, err := s.Repo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if course.InstructorID != requesterID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Duration: req.Duration,
		Order:    req.Order,
	}
	if err := s.Repo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) UpdateLesson(lessonID, requesterID uint, isAdmin bool, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.Repo.FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	course, err := s.Repo.FindByID(lesson.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if course.InstructorID != requesterID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.VideoURL = req.VideoURL
	lesson.Duration = req.Duration
	lesson.Order = req.Order
	if err := s.Repo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) DeleteLesson(lessonID, requesterID uint, isAdmin bool) error {
	lesson, err := s.Repo.FindLessonByID(lessonID)
	if err != nil {
		return err
	}
	course, err := s.Repo.FindByID(lesson.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if course.InstructorID != requesterID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.Repo.DeleteLesson(lessonID)
}
