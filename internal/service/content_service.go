package service

import (
	"errors"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/internal/util"

	"gorm.io/gorm"
)

// ContentService 课程项目与目录维护。增删条目、条目换课后触发进度对账；
// 仅调整顺序不触发（台账按ID存储，展示顺序由目录决定）。
type ContentService struct {
	ContentRepo *repository.ContentItemRepository
	ProgramRepo *repository.ProgramRepository
	Sync        *ProgressSyncService
}

func NewContentService(
	contentRepo *repository.ContentItemRepository,
	programRepo *repository.ProgramRepository,
	sync *ProgressSyncService,
) *ContentService {
	return &ContentService{
		ContentRepo: contentRepo,
		ProgramRepo: programRepo,
		Sync:        sync,
	}
}

func (s *ContentService) CreateProgram(program *model.Program) error {
	return s.ProgramRepo.Create(program)
}

func (s *ContentService) GetProgram(id uint) (*model.Program, error) {
	program, err := s.ProgramRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *ContentService) ListPrograms(page, limit int) ([]model.Program, int64, error) {
	return s.ProgramRepo.List(page, limit)
}

func (s *ContentService) DeleteProgram(id uint) error {
	if _, err := s.GetProgram(id); err != nil {
		return err
	}
	return s.ProgramRepo.Delete(id)
}

type ContentItemRequest struct {
	ProgramID   uint                  `json:"programId" binding:"required"`
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	Type        model.ContentItemType `json:"type" binding:"omitempty,oneof=video article worksheet exercise"`
	URL         string                `json:"url"`
	Order       int                   `json:"order"`
}

// CreateItem 新增内容条目并对归属课程项目做一次对账
func (s *ContentService) CreateItem(req ContentItemRequest) (*model.ContentItem, error) {
	if _, err := s.GetProgram(req.ProgramID); err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		ProgramID:   req.ProgramID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		URL:         req.URL,
		Order:       req.Order,
	}
	if item.Type == "" {
		item.Type = model.ContentArticle
	}

	if err := s.ContentRepo.Create(item); err != nil {
		return nil, err
	}

	if err := s.Sync.Resync(item.ProgramID); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem 更新条目；归属课程项目变化时新旧两边都要对账
func (s *ContentService) UpdateItem(id uint, req ContentItemRequest) (*model.ContentItem, error) {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}

	oldProgramID := item.ProgramID
	if req.ProgramID != 0 && req.ProgramID != oldProgramID {
		if _, err := s.GetProgram(req.ProgramID); err != nil {
			return nil, err
		}
		item.ProgramID = req.ProgramID
	}
	if req.Title != "" {
		item.Title = req.Title
	}
	item.Description = req.Description
	if req.Type != "" {
		item.Type = req.Type
	}
	item.URL = req.URL
	item.Order = req.Order

	if err := s.ContentRepo.Save(item); err != nil {
		return nil, err
	}

	if item.ProgramID != oldProgramID {
		if err := s.Sync.Resync(oldProgramID); err != nil {
			return nil, err
		}
		if err := s.Sync.Resync(item.ProgramID); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// DeleteItem 删除条目并对账；移除只会提高或保持各报名的完成率
func (s *ContentService) DeleteItem(id uint) error {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrContentNotFound
		}
		return err
	}

	if err := s.ContentRepo.Delete(id); err != nil {
		return err
	}
	return s.Sync.Resync(item.ProgramID)
}

func (s *ContentService) ListByProgram(programID uint) ([]model.ContentItem, error) {
	if _, err := s.GetProgram(programID); err != nil {
		return nil, err
	}
	return s.ContentRepo.ListByProgram(programID)
}

// Reorder 重排目录顺序，不改变条目集合，因此不触发对账
func (s *ContentService) Reorder(programID uint, orderedIDs []uint) error {
	if _, err := s.GetProgram(programID); err != nil {
		return err
	}
	return s.ContentRepo.UpdateOrders(programID, orderedIDs)
}
