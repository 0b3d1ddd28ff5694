package repository

import (
	"studypath_backend/internal/model"

	"gorm.io/gorm"
)

type ProgramRepository struct {
	DB *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{DB: db}
}

func (r *ProgramRepository) Create(program *model.Program) error {
	return r.DB.Create(program).Error
}

func (r *ProgramRepository) FindByID(id uint) (*model.Program, error) {
	var program model.Program
	err := r.DB.First(&program, id).Error
	return &program, err
}

func (r *ProgramRepository) List(page, limit int) ([]model.Program, int64, error) {
	var programs []model.Program
	var total int64

	if err := r.DB.Model(&model.Program{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.DB.Order("created_at DESC")
	if limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	err := query.Find(&programs).Error
	return programs, total, err
}

// Delete 删除课程项目及其内容条目与报名记录
func (r *ProgramRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", id).Delete(&model.ContentItem{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("program_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Program{}, id).Error
	})
}
