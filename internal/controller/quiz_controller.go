package controller

import (
	"errors"
	"studypath_backend/internal/model"
	"studypath_backend/internal/service"
	"studypath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type QuizRequest struct {
	ProgramID   uint   `json:"programId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

type SubmitQuizRequest struct {
	Answers []service.AnswerRequest `json:"answers" binding:"required"`
}

// CreateQuiz godoc
// @Summary 创建测验（管理员）
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuizRequest true "测验"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		ProgramID:   req.ProgramID,
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}

	if err := c.QuizService.CreateQuiz(quiz); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验及其题目（管理员）
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{quizId} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, err := util.ParseUint(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.QuizService.DeleteQuiz(quizID); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// CreateQuestion godoc
// @Summary 为测验新增题目（管理员）
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Param body body service.QuizQuestionRequest true "题目及选项"
// @Success 201 {object} util.Response{data=model.QuizQuestion}
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{quizId}/questions [post]
func (c *QuizController) CreateQuestion(ctx *gin.Context) {
	quizID, err := util.ParseUint(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req service.QuizQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.CreateQuestion(quizID, req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// ListQuizzes godoc
// @Summary 按课程项目列出测验
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param programId query int true "课程项目ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	programID, err := util.ParseUint(ctx.Query("programId"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	quizzes, err := c.QuizService.ListByProgram(programID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// CheckEligibility godoc
// @Summary 查询当前用户是否可参加测验
// @Description 内容未全部完成时返回 canTake=false；未报名返回 403
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 404 {object} util.Response "Quiz not found"
// @Router /api/quizzes/{quizId}/check [get]
func (c *QuizController) CheckEligibility(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := util.ParseUint(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	canTake, err := c.QuizService.CanTakeQuiz(user.UserID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"canTake": canTake})
}

// Submit godoc
// @Summary 提交测验
// @Description 内容未全部完成或未报名时拒绝；全对的提交会为报名落账完成时间
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Param body body SubmitQuizRequest true "作答"
// @Success 201 {object} util.Response{data=model.QuizSubmission}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := util.ParseUint(ctx.Param("quizId"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.QuizService.SubmitQuiz(user.UserID, quizID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled), errors.Is(err, util.ErrContentIncomplete), errors.Is(err, util.ErrQuizNotPublished):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, submission)
}
