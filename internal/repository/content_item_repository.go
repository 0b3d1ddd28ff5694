package repository

import (
	"studypath_backend/internal/model"

	"gorm.io/gorm"
)

type ContentItemRepository struct {
	DB *gorm.DB
}

func NewContentItemRepository(db *gorm.DB) *ContentItemRepository {
	return &ContentItemRepository{DB: db}
}

func (r *ContentItemRepository) Create(item *model.ContentItem) error {
	return r.DB.Create(item).Error
}

func (r *ContentItemRepository) FindByID(id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.First(&item, id).Error
	return &item, err
}

// ListByProgram 按目录顺序返回课程项目的全部内容条目
func (r *ContentItemRepository) ListByProgram(programID uint) ([]model.ContentItem, error) {
	var items []model.ContentItem
	err := r.DB.Where("program_id = ?", programID).
		Order("`order` asc, id asc").
		Find(&items).Error
	return items, err
}

func (r *ContentItemRepository) Save(item *model.ContentItem) error {
	return r.DB.Save(item).Error
}

func (r *ContentItemRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ContentItem{}, id).Error
}

// UpdateOrders 按给定的ID序列重写排序值，不增删条目
func (r *ContentItemRepository) UpdateOrders(programID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			err := tx.Model(&model.ContentItem{}).
				Where("id = ? AND program_id = ?", id, programID).
				Update("order", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
