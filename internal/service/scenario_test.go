package service

import (
	"context"
	"studypath_backend/internal/model"
	"studypath_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 一名学员从报名到结课的完整流程，中途目录还发生了变化
func TestEnrollmentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 3)
	quiz := env.createPublishedQuiz(t, program.ID)

	question, err := env.quizzes.CreateQuestion(quiz.ID, QuizQuestionRequest{
		QuestionType: model.SingleChoice,
		Content:      "结课题",
		Options: []struct {
			Content   string `json:"content" binding:"required"`
			IsCorrect bool   `json:"isCorrect"`
			Order     int    `json:"order"`
		}{
			{Content: "正确", IsCorrect: true},
			{Content: "错误"},
		},
	})
	require.NoError(t, err)

	// 报名并完成前两课
	created, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)
	for _, item := range items[:2] {
		_, err := env.enrollments.SetContentCompletion(1, program.ID, item.ID, true)
		require.NoError(t, err)
	}

	// 内容未完成，测验被挡在门外
	_, err = env.quizzes.SubmitQuiz(1, quiz.ID, nil)
	assert.ErrorIs(t, err, util.ErrContentIncomplete)

	// 教师临时加了一课，完成率下降
	added, err := env.content.CreateItem(ContentItemRequest{ProgramID: program.ID, Title: "补充课", Order: 4})
	require.NoError(t, err)
	enrollment := env.reload(t, created.ID)
	assert.Equal(t, 0.5, PercentComplete(enrollment.Ledger))

	// 补完剩余内容
	for _, id := range []uint{items[2].ID, added.ID} {
		_, err := env.enrollments.SetContentCompletion(1, program.ID, id, true)
		require.NoError(t, err)
	}
	enrollment = env.reload(t, created.ID)
	require.NotNil(t, enrollment.CompletedAt)

	// 通过结课测验
	submission, err := env.quizzes.SubmitQuiz(1, quiz.ID, []AnswerRequest{
		{QuestionID: question.ID, SelectedOptions: optionIDs(question, "正确")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, submission.Score)

	// 统计里计入已完成
	stats, err := env.stats.ProgramStats(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)

	// 退课后一切清零
	require.NoError(t, env.enrollments.Unenroll(1, program.ID))
	stats, err = env.stats.ProgramStats(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}
