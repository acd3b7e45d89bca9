package controller

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LiveClassController struct {
	LiveClassService *service.LiveClassService
	Hub              *service.ClassHub
}

func NewLiveClassController(liveClassService *service.LiveClassService, hub *service.ClassHub) *LiveClassController {
	return &LiveClassController{
		LiveClassService: liveClassService,
		Hub:              hub,
	}
}

// Schedule godoc
// @Summary Schedule a live class
// @Tags live-classes
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.LiveClassRequest true "Class fields"
// @Success 201 {object} util.Response{data=model.LiveClass}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/live-classes [post]
func (c *LiveClassController) Schedule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.LiveClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lc, err := c.LiveClassService.Schedule(claims.UserID, claims.Role == model.Admin, req)
	if err != nil {
		respondLiveClassError(ctx, err)
		return
	}
	util.Created(ctx, lc)
}

// List godoc
// @Summary List live classes
// @Tags live-classes
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int false "Course filter"
// @Param   status query string false "Status filter" Enums(scheduled, live, ended)
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/live-classes [get]
func (c *LiveClassController) List(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.DefaultQuery("courseId", "0"))
	status := ctx.Query("status")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	classes, total, err := c.LiveClassService.List(courseID, status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: classes, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Live class detail
// @Tags live-classes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 404 {object} util.Response
// @Router /api/live-classes/{id} [get]
func (c *LiveClassController) Get(ctx *gin.Context) {
	lc, err := c.LiveClassService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, lc)
}

// Start godoc
// @Summary Start a scheduled class
// @Tags live-classes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 403 {object} util.Response
// @Failure 410 {object} util.Response "Class already ended"
// @Router /api/live-classes/{id}/start [post]
func (c *LiveClassController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lc, err := c.LiveClassService.Start(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondLiveClassError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// End godoc
// @Summary End a live class
// @Description Disconnects all participants from the room
// @Tags live-classes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Live class ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 403 {object} util.Response
// @Failure 410 {object} util.Response "Class already ended"
// @Router /api/live-classes/{id}/end [post]
func (c *LiveClassController) End(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lc, err := c.LiveClassService.End(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondLiveClassError(ctx, err)
		return
	}
	util.Success(ctx, lc)
}

// Join godoc
// @Summary Join info for a live class
// @Description Authorizes the caller and returns the room id for the websocket
// @Tags live-classes
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Live class ID"
// @Success 200 {object} util.Response{data=service.JoinInfo}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/live-classes/{id}/join [post]
func (c *LiveClassController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	info, err := c.LiveClassService.Join(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondLiveClassError(ctx, err)
		return
	}
	util.Success(ctx, info)
}

// Signal godoc
// @Summary Websocket endpoint for room signaling
// @Description Upgrades to a websocket carrying chat, presence and WebRTC signaling
// @Tags live-classes
// @Security ApiKeyAuth
// @Param   id path int true "Live class ID"
// @Router /api/live-classes/{id}/ws [get]
func (c *LiveClassController) Signal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	info, err := c.LiveClassService.Join(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondLiveClassError(ctx, err)
		return
	}

	name := claims.Email
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID, name, info.RoomID, info.IsHost)
}

func respondLiveClassError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLiveClassNotFound), errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrNotEnrolled):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrLiveClassNotJoinable):
		util.Error(ctx, 403, "Live class is not currently live")
	case errors.Is(err, util.ErrLiveClassAlreadyEnded):
		util.Error(ctx, 410, "Live class already ended")
	default:
		util.LogInternalError(ctx, err)
	}
}
