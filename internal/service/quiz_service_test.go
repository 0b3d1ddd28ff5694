package service

import (
	"studypath_backend/internal/model"
	"studypath_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) createPublishedQuiz(t *testing.T, programID uint) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{ProgramID: programID, Title: "结课测验", IsPublished: true}
	require.NoError(t, env.quizzes.CreateQuiz(quiz))
	return quiz
}

// optionIDs 返回题目选项中内容匹配的ID
func optionIDs(question *model.QuizQuestion, contents ...string) []uint {
	wanted := make(map[string]bool, len(contents))
	for _, c := range contents {
		wanted[c] = true
	}
	var ids []uint
	for _, o := range question.Options {
		if wanted[o.Content] {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func (env *testEnv) completeAllContent(t *testing.T, userID, programID uint, items []model.ContentItem) {
	t.Helper()
	for _, item := range items {
		_, err := env.enrollments.SetContentCompletion(userID, programID, item.ID, true)
		require.NoError(t, err)
	}
}

func TestCanTakeQuiz(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 2)
	quiz := env.createPublishedQuiz(t, program.ID)

	// 未报名
	_, err := env.quizzes.CanTakeQuiz(1, quiz.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	ok, err := env.quizzes.CanTakeQuiz(1, quiz.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	env.completeAllContent(t, 1, program.ID, items)

	ok, err = env.quizzes.CanTakeQuiz(1, quiz.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubmitQuizGateRejectsWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 2)
	quiz := env.createPublishedQuiz(t, program.ID)

	question, err := env.quizzes.CreateQuestion(quiz.ID, QuizQuestionRequest{
		QuestionType: model.SingleChoice,
		Content:      "1+1=?",
		Options: []struct {
			Content   string `json:"content" binding:"required"`
			IsCorrect bool   `json:"isCorrect"`
			Order     int    `json:"order"`
		}{
			{Content: "2", IsCorrect: true},
			{Content: "3"},
		},
	})
	require.NoError(t, err)

	answers := []AnswerRequest{{QuestionID: question.ID, SelectedOptions: optionIDs(question, "2")}}

	// 未报名
	_, err = env.quizzes.SubmitQuiz(1, quiz.ID, answers)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	_, err = env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	// 内容未全部完成
	_, err = env.quizzes.SubmitQuiz(1, quiz.ID, answers)
	assert.ErrorIs(t, err, util.ErrContentIncomplete)

	// 被拒绝的提交不产生任何落库记录
	submissions, err := env.quizRepo.ListSubmissions(1, quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, submissions)

	env.completeAllContent(t, 1, program.ID, items)

	submission, err := env.quizzes.SubmitQuiz(1, quiz.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 1, submission.Score)
	assert.Equal(t, 1, submission.Total)
}

func TestSubmitQuizUnpublished(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 1)

	quiz := &model.Quiz{ProgramID: program.ID, Title: "草稿测验"}
	require.NoError(t, env.quizzes.CreateQuiz(quiz))

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)
	env.completeAllContent(t, 1, program.ID, items)

	_, err = env.quizzes.SubmitQuiz(1, quiz.ID, nil)
	assert.ErrorIs(t, err, util.ErrQuizNotPublished)
}

func TestSubmitQuizGrading(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 1)
	quiz := env.createPublishedQuiz(t, program.ID)

	type quizOptions = []struct {
		Content   string `json:"content" binding:"required"`
		IsCorrect bool   `json:"isCorrect"`
		Order     int    `json:"order"`
	}

	single, err := env.quizzes.CreateQuestion(quiz.ID, QuizQuestionRequest{
		QuestionType: model.SingleChoice,
		Content:      "单选题",
		Options: quizOptions{
			{Content: "对", IsCorrect: true},
			{Content: "错"},
		},
	})
	require.NoError(t, err)

	multi, err := env.quizzes.CreateQuestion(quiz.ID, QuizQuestionRequest{
		QuestionType: model.MultipleChoice,
		Content:      "多选题",
		Options: quizOptions{
			{Content: "A", IsCorrect: true},
			{Content: "B", IsCorrect: true},
			{Content: "C"},
		},
	})
	require.NoError(t, err)

	free, err := env.quizzes.CreateQuestion(quiz.ID, QuizQuestionRequest{
		QuestionType: model.FreeText,
		Content:      "谈谈你的看法",
	})
	require.NoError(t, err)

	_, err = env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)
	env.completeAllContent(t, 1, program.ID, items)

	t.Run("多选只选对一部分不得分", func(t *testing.T) {
		submission, err := env.quizzes.SubmitQuiz(1, quiz.ID, []AnswerRequest{
			{QuestionID: single.ID, SelectedOptions: optionIDs(single, "对")},
			{QuestionID: multi.ID, SelectedOptions: optionIDs(multi, "A")},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, submission.Score)
		assert.Equal(t, 3, submission.Total)
	})

	t.Run("多选多选了也不得分", func(t *testing.T) {
		submission, err := env.quizzes.SubmitQuiz(1, quiz.ID, []AnswerRequest{
			{QuestionID: single.ID, SelectedOptions: optionIDs(single, "对")},
			{QuestionID: multi.ID, SelectedOptions: optionIDs(multi, "A", "B", "C")},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, submission.Score)
	})

	t.Run("全对的提交", func(t *testing.T) {
		submission, err := env.quizzes.SubmitQuiz(1, quiz.ID, []AnswerRequest{
			{QuestionID: single.ID, SelectedOptions: optionIDs(single, "对")},
			{QuestionID: multi.ID, SelectedOptions: optionIDs(multi, "A", "B")},
			{QuestionID: free.ID, TextAnswer: "都挺好"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, submission.Score)
		assert.Equal(t, 3, submission.Total)

		// 主观题不判分
		for _, answer := range submission.Answers {
			if answer.QuestionID == free.ID {
				assert.Nil(t, answer.IsCorrect)
			} else {
				require.NotNil(t, answer.IsCorrect)
				assert.True(t, *answer.IsCorrect)
			}
		}
	})

	t.Run("低分提交同样保存", func(t *testing.T) {
		submission, err := env.quizzes.SubmitQuiz(1, quiz.ID, []AnswerRequest{
			{QuestionID: single.ID, SelectedOptions: optionIDs(single, "错")},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, submission.Score)

		submissions, err := env.quizRepo.ListSubmissions(1, quiz.ID)
		require.NoError(t, err)
		assert.Len(t, submissions, 4)
	})
}

func TestSubmitQuizKeepsEnrollmentCompleted(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 1)
	quiz := env.createPublishedQuiz(t, program.ID)

	question, err := env.quizzes.CreateQuestion(quiz.ID, QuizQuestionRequest{
		QuestionType: model.SingleChoice,
		Content:      "唯一一题",
		Options: []struct {
			Content   string `json:"content" binding:"required"`
			IsCorrect bool   `json:"isCorrect"`
			Order     int    `json:"order"`
		}{
			{Content: "对", IsCorrect: true},
			{Content: "错"},
		},
	})
	require.NoError(t, err)

	created, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)
	env.completeAllContent(t, 1, program.ID, items)

	before := env.reload(t, created.ID)
	require.NotNil(t, before.CompletedAt)

	_, err = env.quizzes.SubmitQuiz(1, quiz.ID, []AnswerRequest{
		{QuestionID: question.ID, SelectedOptions: optionIDs(question, "对")},
	})
	require.NoError(t, err)

	after := env.reload(t, created.ID)
	require.NotNil(t, after.CompletedAt)
	assert.Equal(t, before.CompletedAt.Unix(), after.CompletedAt.Unix())
}
