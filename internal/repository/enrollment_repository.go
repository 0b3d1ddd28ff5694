package repository

import (
	"studypath_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByUserAndProgram(userID, programID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND program_id = ?", userID, programID).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Order("id asc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByProgram(programID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("program_id = ?", programID).Order("id asc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListAll() ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Order("id asc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Save(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// Delete 硬删除，退出报名不可恢复
func (r *EnrollmentRepository) Delete(enrollment *model.Enrollment) error {
	return r.DB.Unscoped().Delete(enrollment).Error
}
