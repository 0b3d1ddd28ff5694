package repository

import (
	"studypath_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) ListByProgram(programID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("program_id = ?", programID).Order("id asc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Save(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.QuizQuestion{}).Where("quiz_id = ?", id).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuizOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *QuizRepository) CreateQuestion(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

// ListQuestions 返回测验题目及其选项，按题目顺序排列
func (r *QuizRepository) ListQuestions(quizID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_options.`order` asc, quiz_options.id asc")
		}).
		Order("`order` asc, id asc").
		Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.QuizOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.QuizQuestion{}, id).Error
	})
}

// SaveSubmission 提交记录与作答在同一事务内落库
func (r *QuizRepository) SaveSubmission(submission *model.QuizSubmission) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
}

func (r *QuizRepository) ListSubmissions(userID, quizID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Preload("Answers").
		Order("submitted_at desc").
		Find(&submissions).Error
	return submissions, err
}
