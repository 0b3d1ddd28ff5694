package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FreeText       QuestionType = "free_text"
)

// Quiz 课程项目的结课测验，提交前需完成全部内容
// swagger:model Quiz
type Quiz struct {
	BaseModel
	ProgramID   uint   `gorm:"index;type:bigint unsigned;not null" json:"programId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID       uint         `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	QuestionType QuestionType `gorm:"type:varchar(20);not null" json:"questionType"`
	Content      string       `gorm:"type:text;not null" json:"content"`
	Points       int          `gorm:"default:1" json:"points"`
	Order        int          `gorm:"default:0" json:"order"`
	Explanation  string       `gorm:"type:text" json:"explanation"`
	Options      []QuizOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// swagger:model QuizOption
type QuizOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}

// OptionIDList 答案选中的选项ID集合，以JSON列存储
type OptionIDList []uint

func (l OptionIDList) Value() (driver.Value, error) {
	if l == nil {
		l = OptionIDList{}
	}
	return json.Marshal(l)
}

func (l *OptionIDList) Scan(value interface{}) error {
	if value == nil {
		*l = OptionIDList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported option list column type %T", value)
	}
}

// QuizSubmission 一次测验提交，无论得分高低都会保存
// swagger:model QuizSubmission
type QuizSubmission struct {
	UUIDBase
	UserID      uint         `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	QuizID      uint         `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Score       int          `gorm:"default:0" json:"score"`
	Total       int          `gorm:"default:0" json:"total"`
	SubmittedAt time.Time    `json:"submittedAt"`
	Answers     []QuizAnswer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// QuizAnswer 单题作答；主观题不自动判分，IsCorrect 保持为空
// swagger:model QuizAnswer
type QuizAnswer struct {
	UUIDBase
	SubmissionID    string       `gorm:"index;type:varchar(36);not null" json:"submissionId"`
	QuestionID      uint         `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	SelectedOptions OptionIDList `gorm:"type:json" json:"selectedOptions"`
	TextAnswer      string       `gorm:"type:text" json:"textAnswer"`
	IsCorrect       *bool        `json:"isCorrect"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
