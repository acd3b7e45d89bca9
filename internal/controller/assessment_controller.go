package controller

import (
	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// List godoc
// @Summary List published assessments with per-user status
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int false "Course filter"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/assessments [get]
func (c *AssessmentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	courseID := util.MustParseUint(ctx.DefaultQuery("courseId", "0"))

	assessments, total, err := c.AssessmentService.ListForStudent(claims.UserID, courseID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Assessment detail for taking, without the answer key
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	assessment, questions, err := c.AssessmentService.GetForStudent(claims.UserID, id)
	if err != nil {
		respondAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"assessment": assessment,
		"questions":  questions,
	})
}

// Submit godoc
// @Summary Submit answers for grading
// @Description One submission per user per assessment; repeats return 409
// @Tags assessments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Param   body body service.SubmitRequest true "Answers payload"
// @Success 200 {object} util.Response{data=service.SubmitResponse}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already submitted"
// @Failure 410 {object} util.Response "Past due date"
// @Router /api/assessments/{id}/submit [post]
func (c *AssessmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AssessmentService.Submit(claims.UserID, id, req)
	if err != nil {
		respondAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Results godoc
// @Summary Graded results with per-question breakdown
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=service.ResultsResponse}
// @Failure 404 {object} util.Response
// @Router /api/assessments/{id}/results [get]
func (c *AssessmentController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	results, err := c.AssessmentService.Results(claims.UserID, id)
	if err != nil {
		respondAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// Create godoc
// @Summary Create an assessment
// @Tags assessments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.AssessmentRequest true "Assessment fields"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response
// @Router /api/assessments [post]
func (c *AssessmentController) Create(ctx *gin.Context) {
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assessment, err := c.AssessmentService.CreateAssessment(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, assessment)
}

// Update godoc
// @Summary Update an assessment
// @Tags assessments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Param   body body service.AssessmentRequest true "Assessment fields"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 404 {object} util.Response
// @Router /api/assessments/{id} [put]
func (c *AssessmentController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assessment, err := c.AssessmentService.UpdateAssessment(id, req)
	if err != nil {
		respondAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, assessment)
}

// Delete godoc
// @Summary Delete an assessment
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [delete]
func (c *AssessmentController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.AssessmentService.DeleteAssessment(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetFull godoc
// @Summary Assessment detail including the answer key
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 404 {object} util.Response
// @Router /api/teaching/assessments/{id} [get]
func (c *AssessmentController) GetFull(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	assessment, err := c.AssessmentService.GetAssessment(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, assessment)
}

// CreateQuestion godoc
// @Summary Add a question to an assessment
// @Tags assessments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Param   body body service.QuestionRequest true "Question fields"
// @Success 201 {object} util.Response{data=model.AssessmentQuestion}
// @Failure 404 {object} util.Response
// @Router /api/assessments/{id}/questions [post]
func (c *AssessmentController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.AssessmentID = util.MustParseUint(ctx.Param("id"))

	question, err := c.AssessmentService.CreateQuestion(req)
	if err != nil {
		respondAssessmentError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags assessments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   questionId path int true "Question ID"
// @Param   body body service.QuestionRequest true "Question fields"
// @Success 200 {object} util.Response{data=model.AssessmentQuestion}
// @Failure 404 {object} util.Response
// @Router /api/questions/{questionId} [put]
func (c *AssessmentController) UpdateQuestion(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("questionId"))

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.AssessmentService.UpdateQuestion(questionID, req)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   questionId path int true "Question ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{questionId} [delete]
func (c *AssessmentController) DeleteQuestion(ctx *gin.Context) {
	questionID := util.MustParseUint(ctx.Param("questionId"))
	if err := c.AssessmentService.DeleteQuestion(questionID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submissions godoc
// @Summary All submissions of an assessment
// @Tags assessments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assessment ID"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teaching/assessments/{id}/submissions [get]
func (c *AssessmentController) Submissions(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	submissions, total, err := c.AssessmentService.ListSubmissions(id, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}

func respondAssessmentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAssessmentNotFound), errors.Is(err, util.ErrAssessmentNotOpen):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAlreadySubmitted):
		util.Conflict(ctx, "Assessment already submitted")
	case errors.Is(err, util.ErrAssessmentOverdue):
		util.Error(ctx, 410, "Assessment due date has passed")
	case errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
