package service

import (
	"context"
	"studypath_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 四个用户分别推进到 0%、25%、50%、100%
func setupStatsFixture(t *testing.T, env *testEnv) (*model.Program, []model.ContentItem) {
	t.Helper()
	program, items := env.createProgram(t, 4)

	progress := map[uint]int{1: 0, 2: 1, 3: 2, 4: 4}
	for userID := uint(1); userID <= 4; userID++ {
		_, err := env.enrollments.Enroll(userID, program.ID)
		require.NoError(t, err)
		for i := 0; i < progress[userID]; i++ {
			_, err := env.enrollments.SetContentCompletion(userID, program.ID, items[i].ID, true)
			require.NoError(t, err)
		}
	}
	return program, items
}

func TestProgramStatsClassification(t *testing.T) {
	env := newTestEnv(t)
	program, _ := setupStatsFixture(t, env)

	stats, err := env.stats.ProgramStats(context.Background(), program.ID)
	require.NoError(t, err)

	assert.Equal(t, program.ID, stats.ProgramID)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.InProgress)
	assert.Equal(t, 1, stats.NotStarted)

	require.Len(t, stats.Buckets, 4)
	counts := make([]int, 4)
	for i, b := range stats.Buckets {
		counts[i] = b.Count
	}
	// 0% | 25% | 50% | 100%
	assert.Equal(t, []int{1, 1, 1, 1}, counts)
}

func TestProgramStatsEmptyProgram(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 0)

	stats, err := env.stats.ProgramStats(context.Background(), program.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestRanking(t *testing.T) {
	env := newTestEnv(t)
	program, _ := setupStatsFixture(t, env)

	descending, err := env.stats.Ranking(program.ID, false)
	require.NoError(t, err)
	require.Len(t, descending, 4)
	assert.Equal(t, uint(4), descending[0].UserID)
	assert.Equal(t, uint(1), descending[3].UserID)
	for i := 1; i < len(descending); i++ {
		assert.GreaterOrEqual(t, descending[i-1].Percent, descending[i].Percent)
	}

	ascending, err := env.stats.Ranking(program.ID, true)
	require.NoError(t, err)
	assert.Equal(t, uint(1), ascending[0].UserID)
	assert.Equal(t, uint(4), ascending[3].UserID)
}

func TestRankingStableOnTies(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 2)

	for userID := uint(1); userID <= 3; userID++ {
		_, err := env.enrollments.Enroll(userID, program.ID)
		require.NoError(t, err)
	}

	views, err := env.stats.Ranking(program.ID, false)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// 同分保持存储顺序
	assert.Equal(t, uint(1), views[0].UserID)
	assert.Equal(t, uint(2), views[1].UserID)
	assert.Equal(t, uint(3), views[2].UserID)
}

func TestByPercentRange(t *testing.T) {
	env := newTestEnv(t)
	program, _ := setupStatsFixture(t, env)

	views, err := env.stats.ByPercentRange(program.ID, 0.25, 0.75)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.GreaterOrEqual(t, v.Percent, 0.25)
		assert.LessOrEqual(t, v.Percent, 0.75)
	}
}

func TestWithProgress(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 2)

	created, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)
	_, err = env.enrollments.SetContentCompletion(1, program.ID, items[0].ID, true)
	require.NoError(t, err)

	enrollments, err := env.enrollments.ListByProgram(program.ID)
	require.NoError(t, err)

	views := WithProgress(enrollments)
	require.Len(t, views, 1)
	assert.Equal(t, created.ID, views[0].EnrollmentID)
	assert.Equal(t, 0.5, views[0].Percent)
	assert.Nil(t, views[0].CompletedAt)
}
