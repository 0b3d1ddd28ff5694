package controller

import (
	"errors"
	"studypath_backend/internal/model"
	"studypath_backend/internal/service"
	"studypath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

type ProgramRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	IsPublished bool   `json:"isPublished"`
}

type ReorderRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required"`
}

// CreateProgram godoc
// @Summary 创建课程项目（管理员）
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ProgramRequest true "课程项目"
// @Success 201 {object} util.Response{data=model.Program}
// @Router /api/admin/programs [post]
func (c *ContentController) CreateProgram(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	program := &model.Program{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		CreatorID:   user.UserID,
		IsPublished: req.IsPublished,
	}

	if err := c.ContentService.CreateProgram(program); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, program)
}

// ListPrograms godoc
// @Summary 课程项目列表
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/programs [get]
func (c *ContentController) ListPrograms(ctx *gin.Context) {
	page := int(util.MustParseUint(ctx.DefaultQuery("page", "1")))
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "20")))
	if page < 1 {
		page = 1
	}

	programs, total, err := c.ContentService.ListPrograms(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  programs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetProgram godoc
// @Summary 课程项目详情
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程项目ID"
// @Success 200 {object} util.Response{data=model.Program}
// @Failure 404 {object} util.Response
// @Router /api/programs/{id} [get]
func (c *ContentController) GetProgram(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	program, err := c.ContentService.GetProgram(id)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, program)
}

// DeleteProgram godoc
// @Summary 删除课程项目及其内容与报名（管理员）
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程项目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/programs/{id} [delete]
func (c *ContentController) DeleteProgram(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	if err := c.ContentService.DeleteProgram(id); err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// ListContent godoc
// @Summary 按目录顺序列出课程项目内容
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程项目ID"
// @Success 200 {object} util.Response{data=[]model.ContentItem}
// @Failure 404 {object} util.Response
// @Router /api/programs/{id}/content [get]
func (c *ContentController) ListContent(ctx *gin.Context) {
	programID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	items, err := c.ContentService.ListByProgram(programID)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// CreateContent godoc
// @Summary 新增内容条目（管理员），触发进度对账
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ContentItemRequest true "内容条目"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Failure 404 {object} util.Response
// @Router /api/admin/content [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	var req service.ContentItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.ContentService.CreateItem(req)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, item)
}

// UpdateContent godoc
// @Summary 更新内容条目（管理员）
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "内容条目ID"
// @Param body body service.ContentItemRequest true "内容条目"
// @Success 200 {object} util.Response{data=model.ContentItem}
// @Failure 404 {object} util.Response
// @Router /api/admin/content/{id} [put]
func (c *ContentController) UpdateContent(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	var req service.ContentItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.ContentService.UpdateItem(id, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrContentNotFound), errors.Is(err, util.ErrProgramNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, item)
}

// DeleteContent godoc
// @Summary 删除内容条目（管理员），触发进度对账
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "内容条目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/content/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid content id")
		return
	}

	if err := c.ContentService.DeleteItem(id); err != nil {
		if errors.Is(err, util.ErrContentNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// ReorderContent godoc
// @Summary 调整目录顺序（管理员），不触发对账
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程项目ID"
// @Param body body ReorderRequest true "条目ID顺序"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/programs/{id}/content/reorder [put]
func (c *ContentController) ReorderContent(ctx *gin.Context) {
	programID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ContentService.Reorder(programID, req.OrderedIDs); err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"reordered": true})
}
