package service

import (
	"studypath_backend/internal/util"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollSeedsLedgerFromCatalog(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 3)

	enrollment, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	require.Len(t, enrollment.Ledger, 3)
	for i, entry := range enrollment.Ledger {
		assert.Equal(t, items[i].ID, entry.ContentID)
		assert.False(t, entry.Complete)
	}
	assert.Nil(t, enrollment.CompletedAt)
	assert.False(t, enrollment.StartedAt.IsZero())
}

func TestEnrollEmptyProgram(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 0)

	enrollment, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	assert.Empty(t, enrollment.Ledger)
	// 空台账不会被当作已完成
	assert.Nil(t, enrollment.CompletedAt)
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 1)

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	_, err = env.enrollments.Enroll(1, program.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	// 不同用户或不同课程不受影响
	_, err = env.enrollments.Enroll(2, program.ID)
	assert.NoError(t, err)
}

func TestEnrollUnknownProgram(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.enrollments.Enroll(1, 9999)
	assert.ErrorIs(t, err, util.ErrProgramNotFound)
}

func TestSetContentCompletionDerivesCompletedAt(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 2)

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.SetContentCompletion(1, program.ID, items[0].ID, true)
	require.NoError(t, err)
	assert.Nil(t, enrollment.CompletedAt)
	assert.Equal(t, 0.5, PercentComplete(enrollment.Ledger))

	enrollment, err = env.enrollments.SetContentCompletion(1, program.ID, items[1].ID, true)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	completedAt := *enrollment.CompletedAt

	// 重复置为完成是幂等的，完成时间不变
	enrollment, err = env.enrollments.SetContentCompletion(1, program.ID, items[1].ID, true)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, completedAt.Unix(), enrollment.CompletedAt.Unix())

	// 取消一条后完成时间被清空
	enrollment, err = env.enrollments.SetContentCompletion(1, program.ID, items[0].ID, false)
	require.NoError(t, err)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestToggleContentCompletion(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 1)

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.ToggleContentCompletion(1, program.ID, items[0].ID)
	require.NoError(t, err)
	assert.True(t, enrollment.Ledger[0].Complete)
	assert.NotNil(t, enrollment.CompletedAt)

	enrollment, err = env.enrollments.ToggleContentCompletion(1, program.ID, items[0].ID)
	require.NoError(t, err)
	assert.False(t, enrollment.Ledger[0].Complete)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestCompletionUnknownContent(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 1)

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	_, err = env.enrollments.SetContentCompletion(1, program.ID, 9999, true)
	assert.ErrorIs(t, err, util.ErrContentNotInLedger)
}

func TestCompletionWithoutEnrollment(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 1)

	_, err := env.enrollments.SetContentCompletion(1, program.ID, items[0].ID, true)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestForceComplete(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 3)

	created, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	enrollment, err := env.enrollments.ForceComplete(created.ID)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	for _, entry := range enrollment.Ledger {
		assert.True(t, entry.Complete)
	}

	// 强制完成不是粘性的：取消一条后完成时间按普通规则清空
	enrollment, err = env.enrollments.SetContentCompletion(1, program.ID, items[0].ID, false)
	require.NoError(t, err)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestUnenrollDeletesProgress(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 2)

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	require.NoError(t, env.enrollments.Unenroll(1, program.ID))

	_, err = env.enrollments.Get(1, program.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	// 退出后可以重新报名，台账重新播种
	enrollment, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, PercentComplete(enrollment.Ledger))
}

func TestConcurrentCompletionUpdates(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 2)

	created, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	// 两个并发勾选不同条目，互不覆盖
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.enrollments.SetContentCompletion(1, program.ID, items[i].ID, true)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	enrollment := env.reload(t, created.ID)
	assert.True(t, IsFullyComplete(enrollment.Ledger))
	assert.NotNil(t, enrollment.CompletedAt)
}
