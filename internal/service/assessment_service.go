package service

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssessmentService struct {
	Repo         *repository.AssessmentRepository
	CourseRepo   *repository.CourseRepository
	Certificates *CertificateService
}

func NewAssessmentService(repo *repository.AssessmentRepository, courseRepo *repository.CourseRepository, certificates *CertificateService) *AssessmentService {
	return &AssessmentService{
		Repo:         repo,
		CourseRepo:   courseRepo,
		Certificates: certificates,
	}
}

type AssessmentRequest struct {
	CourseID     uint       `json:"courseId" binding:"required"`
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Type         string     `json:"type"`
	TimeLimit    int        `json:"timeLimit"`
	DueDate      *time.Time `json:"dueDate"`
	PassingScore int        `json:"passingScore"`
	IsPublished  bool       `json:"isPublished"`
}

func (s *AssessmentService) CreateAssessment(req AssessmentRequest) (*model.Assessment, error) {
	if req.Type == "" {
		req.Type = model.AssessmentQuiz
	}
	a := &model.Assessment{
		CourseID:     req.CourseID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Type:         req.Type,
		TimeLimit:    req.TimeLimit,
		DueDate:      req.DueDate,
		PassingScore: req.PassingScore,
		IsPublished:  req.IsPublished,
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) UpdateAssessment(id uint, req AssessmentRequest) (*model.Assessment, error) {
	a, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrAssessmentNotFound
	}

	a.CourseID = req.CourseID
	a.Title = req.Title
	a.Description = req.Description
	a.Category = req.Category
	if req.Type != "" {
		a.Type = req.Type
	}
	a.TimeLimit = req.TimeLimit
	a.DueDate = req.DueDate
	a.PassingScore = req.PassingScore
	a.IsPublished = req.IsPublished
	if err := s.Repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) DeleteAssessment(id uint) error {
	return s.Repo.Delete(id)
}

func (s *AssessmentService) GetAssessment(id uint) (*model.Assessment, error) {
	return s.Repo.FindByIDWithQuestions(id)
}

type QuestionRequest struct {
	AssessmentID   uint            `json:"assessmentId"`
	QuestionType   string          `json:"questionType" binding:"required"`
	Content        string          `json:"content" binding:"required"`
	Options        json.RawMessage `json:"options"`
	CorrectAnswer  string          `json:"correctAnswer"`
	CorrectAnswers json.RawMessage `json:"correctAnswers"`
	Category       string          `json:"category"`
	Explanation    string          `json:"explanation"`
	Order          int             `json:"order"`
}

func (s *AssessmentService) CreateQuestion(req QuestionRequest) (*model.AssessmentQuestion, error) {
	if _, err := s.Repo.FindByID(req.AssessmentID); err != nil {
		return nil, util.ErrAssessmentNotFound
	}

	q := &model.AssessmentQuestion{
		AssessmentID:   req.AssessmentID,
		QuestionType:   req.QuestionType,
		Content:        req.Content,
		Options:        req.Options,
		CorrectAnswer:  req.CorrectAnswer,
		CorrectAnswers: req.CorrectAnswers,
		Category:       req.Category,
		Explanation:    req.Explanation,
		Order:          req.Order,
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AssessmentService) UpdateQuestion(id uint, req QuestionRequest) (*model.AssessmentQuestion, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if err != nil {
		return nil, err
	}

	q.QuestionType = req.QuestionType
	q.Content = req.Content
	q.Options = req.Options
	q.CorrectAnswer = req.CorrectAnswer
	q.CorrectAnswers = req.CorrectAnswers
	q.Category = req.Category
	q.Explanation = req.Explanation
	q.Order = req.Order
	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AssessmentService) DeleteQuestion(id uint) error {
	return s.Repo.DeleteQuestion(id)
}

// StudentQuestion is the question as the student sees it; the answer key and
// explanation stay server side until results.
type StudentQuestion struct {
	ID           uint            `json:"id"`
	QuestionType string          `json:"questionType"`
	Content      string          `json:"content"`
	Options      json.RawMessage `json:"options"`
	Category     string          `json:"category"`
	Order        int             `json:"order"`
}

// StudentAssessment carries the per-user derived status; assessment state is
// never shared between users.
type StudentAssessment struct {
	model.Assessment
	Status string `json:"status"` // not_started, completed
	Score  *int   `json:"score,omitempty"`
}

func (s *AssessmentService) ListForStudent(userID uint, courseID uint, page, limit int) ([]StudentAssessment, int64, error) {
	as, total, err := s.Repo.List(page, limit, courseID, true)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	subs, err := s.Repo.ListUserSubmissions(userID, ids)
	if err != nil {
		return nil, 0, err
	}
	byAssessment := make(map[uint]*model.AssessmentSubmission, len(subs))
	for i := range subs {
		byAssessment[subs[i].AssessmentID] = &subs[i]
	}

	result := make([]StudentAssessment, len(as))
	for i, a := range as {
		a.Questions = nil
		result[i] = StudentAssessment{Assessment: a, Status: model.AssessmentNotStarted}
		if sub, ok := byAssessment[a.ID]; ok {
			result[i].Status = model.AssessmentCompleted
			score := sub.Score
			result[i].Score = &score
		}
	}
	return result, total, nil
}

func (s *AssessmentService) GetForStudent(userID, assessmentID uint) (*model.Assessment, []StudentQuestion, error) {
	a, err := s.Repo.FindByIDWithQuestions(assessmentID)
	if err != nil {
		return nil, nil, util.ErrAssessmentNotFound
	}
	if !a.IsPublished {
		return nil, nil, util.ErrAssessmentNotOpen
	}

	qs := make([]StudentQuestion, len(a.Questions))
	for i, q := range a.Questions {
		qs[i] = StudentQuestion{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Content:      q.Content,
			Options:      q.Options,
			Category:     q.Category,
			Order:        q.Order,
		}
	}
	a.Questions = nil
	return a, qs, nil
}

type SubmitRequest struct {
	Answers   json.RawMessage `json:"answers"`
	TimeSpent int             `json:"timeSpent"`
}

// SubmitResponse is the score breakdown returned right after grading.
type SubmitResponse struct {
	Message          string             `json:"message"`
	AssessmentID     uint               `json:"assessmentId"`
	Score            int                `json:"score"`
	TotalQuestions   int                `json:"totalQuestions"`
	CorrectAnswers   int                `json:"correctAnswers"`
	IncorrectAnswers int                `json:"incorrectAnswers"`
	Percentage       int                `json:"percentage"`
	IsPassed         bool               `json:"isPassed"`
	PassingScore     int                `json:"passingScore"`
	TimeSpent        int                `json:"timeSpent"`
	SubmittedAt      time.Time          `json:"submittedAt"`
	Certificate      *model.Certificate `json:"certificate"`
}

// Submit grades one attempt and records it. One submission per user per
// assessment; a repeat attempt is a conflict, not a second row. A passing
// score issues the certificate as a side effect, and issuance failure never
// fails the submission.
func (s *AssessmentService) Submit(userID, assessmentID uint, req SubmitRequest) (*SubmitResponse, error) {
	a, err := s.Repo.FindByIDWithQuestions(assessmentID)
	if err != nil {
		return nil, util.ErrAssessmentNotFound
	}
	if !a.IsPublished {
		return nil, util.ErrAssessmentNotOpen
	}
	if a.DueDate != nil && time.Now().After(*a.DueDate) {
		return nil, util.ErrAssessmentOverdue
	}

	if existing, err := s.Repo.FindSubmission(userID, assessmentID); err == nil && existing != nil {
		return nil, util.ErrAlreadySubmitted
	}

	graded, err := GradeAssessment(a.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	submittedAt := time.Now()
	submission := &model.AssessmentSubmission{
		UserID:       userID,
		AssessmentID: assessmentID,
		Score:        graded.Score,
		IsPassed:     graded.Score >= a.PassingScore,
		TimeSpent:    req.TimeSpent,
		SubmittedAt:  submittedAt,
	}
	for _, ans := range graded.Answers {
		stored := model.SubmissionAnswer{
			QuestionID:     ans.QuestionID,
			IsCorrect:      ans.IsCorrect,
			SelectedAnswer: ans.SelectedAnswer,
		}
		if ans.SelectedAnswers != nil {
			if raw, err := json.Marshal(ans.SelectedAnswers); err == nil {
				stored.SelectedAnswers = raw
			}
		}
		submission.Answers = append(submission.Answers, stored)
	}

	if err := s.Repo.CreateSubmission(submission); err != nil {
		// The unique index caught a concurrent double-submit that slipped
		// past the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadySubmitted
		}
		return nil, err
	}

	outcome := "failed"
	if submission.IsPassed {
		outcome = "passed"
	}
	monitoring.SubmissionCounter.WithLabelValues(outcome).Inc()

	resp := &SubmitResponse{
		Message:          "Assessment submitted successfully",
		AssessmentID:     assessmentID,
		Score:            graded.Score,
		TotalQuestions:   graded.Total,
		CorrectAnswers:   graded.Correct,
		IncorrectAnswers: graded.Incorrect,
		Percentage:       graded.Score,
		IsPassed:         submission.IsPassed,
		PassingScore:     a.PassingScore,
		TimeSpent:        req.TimeSpent,
		SubmittedAt:      submittedAt,
		Certificate:      nil,
	}

	if submission.IsPassed {
		course, err := s.CourseRepo.FindByID(a.CourseID)
		if err != nil {
			logger.Log.Error("certificate issuance skipped, course lookup failed",
				zap.Error(err), zap.Uint("assessmentId", assessmentID), zap.Uint("userId", userID))
			return resp, nil
		}
		cert, err := s.Certificates.Issue(userID, a, course, graded.Score)
		if err != nil {
			logger.Log.Error("certificate issuance failed",
				zap.Error(err), zap.Uint("assessmentId", assessmentID), zap.Uint("userId", userID))
			return resp, nil
		}
		resp.Certificate = cert
	}

	return resp, nil
}

// QuestionResult is one question's outcome in the results view; here the
// answer key and explanation are revealed.
type QuestionResult struct {
	QuestionID      uint            `json:"questionId"`
	Content         string          `json:"content"`
	Category        string          `json:"category"`
	IsCorrect       bool            `json:"isCorrect"`
	SelectedAnswer  string          `json:"selectedAnswer,omitempty"`
	SelectedAnswers json.RawMessage `json:"selectedAnswers,omitempty"`
	CorrectAnswer   string          `json:"correctAnswer,omitempty"`
	CorrectAnswers  json.RawMessage `json:"correctAnswers,omitempty"`
	Explanation     string          `json:"explanation,omitempty"`
}

type ResultsResponse struct {
	AssessmentID uint             `json:"assessmentId"`
	Title        string           `json:"title"`
	Score        int              `json:"score"`
	IsPassed     bool             `json:"isPassed"`
	PassingScore int              `json:"passingScore"`
	TimeSpent    int              `json:"timeSpent"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	Questions    []QuestionResult `json:"questions"`
	Strengths    []string         `json:"strengths"`
	Weaknesses   []string         `json:"weaknesses"`
}

// Results returns the graded breakdown plus strengths and weaknesses derived
// from per-category accuracy: >=70% is a strength, <50% a weakness.
func (s *AssessmentService) Results(userID, assessmentID uint) (*ResultsResponse, error) {
	a, err := s.Repo.FindByIDWithQuestions(assessmentID)
	if err != nil {
		return nil, util.ErrAssessmentNotFound
	}

	submission, err := s.Repo.FindSubmission(userID, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	questionByID := make(map[uint]*model.AssessmentQuestion, len(a.Questions))
	for i := range a.Questions {
		questionByID[a.Questions[i].ID] = &a.Questions[i]
	}

	type categoryTally struct{ correct, total int }
	tally := make(map[string]*categoryTally)

	resp := &ResultsResponse{
		AssessmentID: a.ID,
		Title:        a.Title,
		Score:        submission.Score,
		IsPassed:     submission.IsPassed,
		PassingScore: a.PassingScore,
		TimeSpent:    submission.TimeSpent,
		SubmittedAt:  submission.SubmittedAt,
		Strengths:    []string{},
		Weaknesses:   []string{},
	}

	for _, ans := range submission.Answers {
		q, ok := questionByID[ans.QuestionID]
		if !ok {
			continue
		}
		resp.Questions = append(resp.Questions, QuestionResult{
			QuestionID:      ans.QuestionID,
			Content:         q.Content,
			Category:        q.Category,
			IsCorrect:       ans.IsCorrect,
			SelectedAnswer:  ans.SelectedAnswer,
			SelectedAnswers: ans.SelectedAnswers,
			CorrectAnswer:   q.CorrectAnswer,
			CorrectAnswers:  q.CorrectAnswers,
			Explanation:     q.Explanation,
		})

		category := q.Category
		if category == "" {
			category = "general"
		}
		t, ok := tally[category]
		if !ok {
			t = &categoryTally{}
			tally[category] = t
		}
		t.total++
		if ans.IsCorrect {
			t.correct++
		}
	}

	for category, t := range tally {
		accuracy := ComputeScore(t.correct, t.total)
		if accuracy >= 70 {
			resp.Strengths = append(resp.Strengths, category)
		} else if accuracy < 50 {
			resp.Weaknesses = append(resp.Weaknesses, category)
		}
	}

	return resp, nil
}

func (s *AssessmentService) ListSubmissions(assessmentID uint, page, limit int) ([]model.AssessmentSubmission, int64, error) {
	return s.Repo.ListSubmissions(assessmentID, page, limit)
}
