package service

import (
	"errors"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// QuizService 测验闸口：内容未全部完成前不允许查看资格或提交测验；
// 全对的判分提交会触发报名完成落账。
type QuizService struct {
	QuizRepo   *repository.QuizRepository
	Enrollment *EnrollmentService
}

func NewQuizService(quizRepo *repository.QuizRepository, enrollment *EnrollmentService) *QuizService {
	return &QuizService{
		QuizRepo:   quizRepo,
		Enrollment: enrollment,
	}
}

type QuizQuestionRequest struct {
	QuestionType model.QuestionType `json:"questionType" binding:"required,oneof=single_choice multiple_choice free_text"`
	Content      string             `json:"content" binding:"required"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`
	Explanation  string             `json:"explanation"`
	Options      []struct {
		Content   string `json:"content" binding:"required"`
		IsCorrect bool   `json:"isCorrect"`
		Order     int    `json:"order"`
	} `json:"options"`
}

type AnswerRequest struct {
	QuestionID      uint   `json:"questionId" binding:"required"`
	SelectedOptions []uint `json:"selectedOptions"`
	TextAnswer      string `json:"textAnswer"`
}

func (s *QuizService) CreateQuiz(quiz *model.Quiz) error {
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) ListByProgram(programID uint) ([]model.Quiz, error) {
	return s.QuizRepo.ListByProgram(programID)
}

func (s *QuizService) DeleteQuiz(id uint) error {
	if _, err := s.getQuiz(id); err != nil {
		return err
	}
	return s.QuizRepo.Delete(id)
}

func (s *QuizService) CreateQuestion(quizID uint, req QuizQuestionRequest) (*model.QuizQuestion, error) {
	if _, err := s.getQuiz(quizID); err != nil {
		return nil, err
	}

	question := &model.QuizQuestion{
		QuizID:       quizID,
		QuestionType: req.QuestionType,
		Content:      req.Content,
		Points:       req.Points,
		Order:        req.Order,
		Explanation:  req.Explanation,
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.QuizOption{
			Content:   o.Content,
			IsCorrect: o.IsCorrect,
			Order:     o.Order,
		})
	}
	if question.Points == 0 {
		question.Points = 1
	}

	if err := s.QuizRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) ListQuestions(quizID uint) ([]model.QuizQuestion, error) {
	if _, err := s.getQuiz(quizID); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListQuestions(quizID)
}

func (s *QuizService) getQuiz(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// CanTakeQuiz 报名存在且内容全部完成时才可参加测验
func (s *QuizService) CanTakeQuiz(userID, quizID uint) (bool, error) {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return false, err
	}

	enrollment, err := s.Enrollment.Get(userID, quiz.ProgramID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			return false, util.ErrNotEnrolled
		}
		return false, err
	}

	return IsFullyComplete(enrollment.Ledger), nil
}

// SubmitQuiz 判分并保存提交。校验全部通过之前不产生任何写入；
// 提交本身与得分无关地保存，只有完成落账是有条件的副作用。
func (s *QuizService) SubmitQuiz(userID, quizID uint, answers []AnswerRequest) (*model.QuizSubmission, error) {
	quiz, err := s.getQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	enrollment, err := s.Enrollment.Get(userID, quiz.ProgramID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	if !IsFullyComplete(enrollment.Ledger) {
		return nil, util.ErrContentIncomplete
	}

	questions, err := s.QuizRepo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	answered := make(map[uint]AnswerRequest, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a
	}

	var rows []model.QuizAnswer
	score := 0
	gradable := 0
	correct := 0

	for _, q := range questions {
		ans, ok := answered[q.ID]
		row := model.QuizAnswer{
			QuestionID:      q.ID,
			SelectedOptions: model.OptionIDList(ans.SelectedOptions),
			TextAnswer:      ans.TextAnswer,
		}

		// 主观题不自动判分，IsCorrect 留空
		if q.QuestionType != model.FreeText {
			gradable++
			isCorrect := ok && gradeChoice(q, ans.SelectedOptions)
			row.IsCorrect = &isCorrect
			if isCorrect {
				score++
				correct++
			}
		}

		if ok || q.QuestionType != model.FreeText {
			rows = append(rows, row)
		}
	}

	submission := &model.QuizSubmission{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		Total:       len(questions),
		SubmittedAt: time.Now(),
		Answers:     rows,
	}

	if err := s.QuizRepo.SaveSubmission(submission); err != nil {
		return nil, err
	}

	// 判分题全对时落账完成时间；是否真正写入由报名服务在锁内复核
	if gradable > 0 && correct == gradable {
		if err := s.Enrollment.markCompletedByQuiz(userID, quiz.ProgramID); err != nil {
			return nil, err
		}
	}

	return submission, nil
}

// gradeChoice 选择题判分：单选要求选中唯一正确项，多选要求选中集合与正确集合完全一致
func gradeChoice(q model.QuizQuestion, selected []uint) bool {
	correctSet := make(map[uint]bool)
	for _, o := range q.Options {
		if o.IsCorrect {
			correctSet[o.ID] = true
		}
	}

	switch q.QuestionType {
	case model.SingleChoice:
		return len(selected) == 1 && len(correctSet) == 1 && correctSet[selected[0]]
	case model.MultipleChoice:
		if len(selected) != len(correctSet) || len(correctSet) == 0 {
			return false
		}
		seen := make(map[uint]bool, len(selected))
		for _, id := range selected {
			if !correctSet[id] || seen[id] {
				return false
			}
			seen[id] = true
		}
		return true
	default:
		return false
	}
}
