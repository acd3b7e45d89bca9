package service

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"time"
)

type LiveClassService struct {
	Repo       *repository.LiveClassRepository
	CourseRepo *repository.CourseRepository
	Enrollment *repository.EnrollmentRepository
	Hub        *ClassHub
}

func NewLiveClassService(repo *repository.LiveClassRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, hub *ClassHub) *LiveClassService {
	return &LiveClassService{
		Repo:       repo,
		CourseRepo: courseRepo,
		Enrollment: enrollmentRepo,
		Hub:        hub,
	}
}

type LiveClassRequest struct {
	CourseID    uint      `json:"courseId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Duration    int       `json:"duration"`
}

func (s *LiveClassService) Schedule(hostID uint, isAdmin bool, req LiveClassRequest) (*model.LiveClass, error) {
	course, err := s.CourseRepo.FindByID(req.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if course.InstructorID != hostID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}

	duration := req.Duration
	if duration <= 0 {
		duration = 60
	}

	lc := &model.LiveClass{
		CourseID:    req.CourseID,
		HostID:      hostID,
		Title:       req.Title,
		Description: req.Description,
		RoomID:      model.GenerateUUID(),
		ScheduledAt: req.ScheduledAt,
		Duration:    duration,
		Status:      model.LiveClassScheduled,
	}
	if err := s.Repo.Create(lc); err != nil {
		return nil, err
	}
	return lc, nil
}

func (s *LiveClassService) List(courseID uint, status string, page, limit int) ([]model.LiveClass, int64, error) {
	return s.Repo.List(courseID, status, page, limit)
}

func (s *LiveClassService) Get(id uint) (*model.LiveClass, error) {
	lc, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrLiveClassNotFound
	}
	return lc, nil
}

func (s *LiveClassService) Start(id, requesterID uint, isAdmin bool) (*model.LiveClass, error) {
	lc, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrLiveClassNotFound
	}
	if lc.HostID != requesterID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}
	if lc.Status == model.LiveClassEnded {
		return nil, util.ErrLiveClassAlreadyEnded
	}
	if lc.Status == model.LiveClassLive {
		return lc, nil
	}

	if err := s.Repo.MarkStarted(id); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(id)
}

func (s *LiveClassService) End(id, requesterID uint, isAdmin bool) (*model.LiveClass, error) {
	lc, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrLiveClassNotFound
	}
	if lc.HostID != requesterID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}
	if lc.Status == model.LiveClassEnded {
		return nil, util.ErrLiveClassAlreadyEnded
	}

	if err := s.Repo.MarkEnded(id); err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.CloseRoom(lc.RoomID)
	}
	return s.Repo.FindByID(id)
}

// JoinInfo is handed to a participant before opening the websocket.
type JoinInfo struct {
	Class        *model.LiveClass `json:"class"`
	RoomID       string           `json:"roomId"`
	Participants int              `json:"participants"`
	IsHost       bool             `json:"isHost"`
}

// Join authorizes a participant for a live room. Hosts may join any state but
// scheduled classes are closed to students until the host starts them.
func (s *LiveClassService) Join(id, userID uint, isAdmin bool) (*JoinInfo, error) {
	lc, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrLiveClassNotFound
	}

	isHost := lc.HostID == userID || isAdmin
	if lc.Status == model.LiveClassEnded {
		return nil, util.ErrLiveClassAlreadyEnded
	}
	if lc.Status != model.LiveClassLive && !isHost {
		return nil, util.ErrLiveClassNotJoinable
	}

	if !isHost {
		if _, err := s.Enrollment.FindByUserAndCourse(userID, lc.CourseID); err != nil {
			return nil, util.ErrNotEnrolled
		}
	}

	participants := 0
	if s.Hub != nil {
		participants = s.Hub.RoomSize(lc.RoomID)
	}

	return &JoinInfo{
		Class:        lc,
		RoomID:       lc.RoomID,
		Participants: participants,
		IsHost:       isHost,
	}, nil
}
