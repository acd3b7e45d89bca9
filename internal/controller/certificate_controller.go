package controller

import (
	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// List godoc
// @Summary Certificates earned by the current user
// @Tags certificates
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certs, err := c.CertificateService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

type generateRequest struct {
	AssessmentID uint `json:"assessmentId" binding:"required"`
	CourseID     uint `json:"courseId" binding:"required"`
}

// Generate godoc
// @Summary Generate a certificate for a passed assessment
// @Description Idempotent; repeated calls return the same certificate
// @Tags certificates
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body generateRequest true "Assessment and course"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 403 {object} util.Response "Assessment not passed"
// @Failure 404 {object} util.Response
// @Router /api/certificates/generate [post]
func (c *CertificateController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req generateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cert, err := c.CertificateService.Generate(claims.UserID, req.AssessmentID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCertificateNotEarned):
			util.Error(ctx, 403, "Assessment not passed, certificate not available")
		case errors.Is(err, util.ErrAssessmentNotFound), errors.Is(err, util.ErrCourseNotFound),
			errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, cert)
}

// Verify godoc
// @Summary Verify a certificate by credential ID
// @Description Public endpoint; reports valid, revoked or expired
// @Tags certificates
// @Produce  json
// @Param   credentialId path string true "Credential ID"
// @Success 200 {object} util.Response{data=service.VerifyResult}
// @Router /api/certificates/verify/{credentialId} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	result, err := c.CertificateService.Verify(ctx.Param("credentialId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Revoke godoc
// @Summary Revoke a certificate
// @Tags certificates
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Certificate ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/certificates/{id}/revoke [post]
func (c *CertificateController) Revoke(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CertificateService.Revoke(id); err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
