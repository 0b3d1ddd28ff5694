package controller

import (
	"errors"
	"studypath_backend/internal/service"
	"studypath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type EnrollRequest struct {
	ProgramID uint `json:"programId" binding:"required"`
}

type SetCompletionRequest struct {
	// Complete 省略时执行翻转，否则设置为指定值
	Complete *bool `json:"complete"`
}

// Enroll godoc
// @Summary 报名课程项目
// @Description 为当前用户创建报名并按目录播种进度台账
// @Tags enrollment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body EnrollRequest true "课程项目ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "Program not found"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(user.UserID, req.ProgramID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrProgramNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

// ListByUser godoc
// @Summary 按用户列出报名（含台账）
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/enrollments/user/{userId} [get]
func (c *EnrollmentController) ListByUser(ctx *gin.Context) {
	userID, err := util.ParseUint(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	enrollments, err := c.EnrollmentService.ListByUser(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, service.WithProgress(enrollments))
}

// ListByProgram godoc
// @Summary 按课程项目列出报名
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param programId path int true "课程项目ID"
// @Success 200 {object} util.Response
// @Router /api/enrollments/program/{programId} [get]
func (c *EnrollmentController) ListByProgram(ctx *gin.Context) {
	programID, err := util.ParseUint(ctx.Param("programId"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	enrollments, err := c.EnrollmentService.ListByProgram(programID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, service.WithProgress(enrollments))
}

// Check godoc
// @Summary 查询当前用户在某课程项目的报名状态
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param programId path int true "课程项目ID"
// @Success 200 {object} util.Response
// @Router /api/enrollments/check/{programId} [get]
func (c *EnrollmentController) Check(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, err := util.ParseUint(ctx.Param("programId"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	enrollment, err := c.EnrollmentService.Get(user.UserID, programID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.Success(ctx, gin.H{"enrolled": false})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"enrolled":    true,
		"enrollment":  enrollment,
		"percent":     service.PercentComplete(enrollment.Ledger),
		"isCompleted": service.IsFullyComplete(enrollment.Ledger),
	})
}

// ForceComplete godoc
// @Summary 管理员强制完成报名
// @Description 全部台账条目置为完成并记录完成时间
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/enrollments/{id}/complete [put]
func (c *EnrollmentController) ForceComplete(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid enrollment id")
		return
	}

	enrollment, err := c.EnrollmentService.ForceComplete(id)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// UpdateContentCompletion godoc
// @Summary 设置或翻转单条内容的完成标记
// @Tags enrollment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param programId path int true "课程项目ID"
// @Param contentId path int true "内容条目ID"
// @Param body body SetCompletionRequest false "complete 省略时翻转"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/enrollments/program/{programId}/content/{contentId} [patch]
func (c *EnrollmentController) UpdateContentCompletion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, err := util.ParseUint(ctx.Param("programId"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}
	contentID, err := util.ParseUint(ctx.Param("contentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	var req SetCompletionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	var enrollment interface{}
	if req.Complete != nil {
		enrollment, err = c.EnrollmentService.SetContentCompletion(user.UserID, programID, contentID, *req.Complete)
	} else {
		enrollment, err = c.EnrollmentService.ToggleContentCompletion(user.UserID, programID, contentID)
	}

	if err != nil {
		switch {
		case errors.Is(err, util.ErrEnrollmentNotFound), errors.Is(err, util.ErrContentNotInLedger):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, enrollment)
}

// Unenroll godoc
// @Summary 当前用户退出课程项目
// @Tags enrollment
// @Produce json
// @Security ApiKeyAuth
// @Param programId path int true "课程项目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/enrollments/my/{programId} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	programID, err := util.ParseUint(ctx.Param("programId"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	if err := c.EnrollmentService.Unenroll(user.UserID, programID); err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"unenrolled": true})
}
