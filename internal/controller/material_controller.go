package controller

import (
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MaterialController struct {
	MaterialService *service.MaterialService
}

func NewMaterialController(materialService *service.MaterialService) *MaterialController {
	return &MaterialController{MaterialService: materialService}
}

// Upload godoc
// @Summary Upload a study material
// @Description Multipart upload; video files get probed for duration and a thumbnail
// @Tags materials
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "File"
// @Param   courseId formData int true "Course ID"
// @Param   title formData string true "Title"
// @Param   description formData string false "Description"
// @Success 201 {object} util.Response{data=model.StudyMaterial}
// @Failure 400 {object} util.Response
// @Router /api/materials [post]
func (c *MaterialController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	req := service.MaterialUpload{
		CourseID:    util.MustParseUint(ctx.PostForm("courseId")),
		Title:       title,
		Description: ctx.PostForm("description"),
	}

	material, err := c.MaterialService.Upload(ctx.Request.Context(), claims.UserID, req, header)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// List godoc
// @Summary Study materials of a course
// @Tags materials
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId query int true "Course ID"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/materials [get]
func (c *MaterialController) List(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Query("courseId"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	materials, total, err := c.MaterialService.ListByCourse(courseID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: materials, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Study material detail
// @Tags materials
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Material ID"
// @Success 200 {object} util.Response{data=model.StudyMaterial}
// @Failure 404 {object} util.Response
// @Router /api/materials/{id} [get]
func (c *MaterialController) Get(ctx *gin.Context) {
	material, err := c.MaterialService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, material)
}

// Download godoc
// @Summary Download link for a material
// @Description Returns the file URL and bumps the download counter
// @Tags materials
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Material ID"
// @Success 200 {object} util.Response{data=model.StudyMaterial}
// @Failure 404 {object} util.Response
// @Router /api/materials/{id}/download [get]
func (c *MaterialController) Download(ctx *gin.Context) {
	material, err := c.MaterialService.Download(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, material)
}

// Delete godoc
// @Summary Delete a material
// @Description Only the uploader or an admin may delete
// @Tags materials
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Material ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/materials/{id} [delete]
func (c *MaterialController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.MaterialService.Delete(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMaterialNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
