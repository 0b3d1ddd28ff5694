package service

import (
	"studypath_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemUnknownProgram(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.content.CreateItem(ContentItemRequest{ProgramID: 9999, Title: "孤儿内容"})
	assert.ErrorIs(t, err, util.ErrProgramNotFound)
}

func TestListByProgramFollowsOrder(t *testing.T) {
	env := newTestEnv(t)
	program, items := env.createProgram(t, 3)

	require.NoError(t, env.content.Reorder(program.ID, []uint{items[1].ID, items[2].ID, items[0].ID}))

	listed, err := env.content.ListByProgram(program.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, items[1].ID, listed[0].ID)
	assert.Equal(t, items[2].ID, listed[1].ID)
	assert.Equal(t, items[0].ID, listed[2].ID)
}

func TestDeleteProgramCascades(t *testing.T) {
	env := newTestEnv(t)
	program, _ := env.createProgram(t, 2)

	_, err := env.enrollments.Enroll(1, program.ID)
	require.NoError(t, err)

	require.NoError(t, env.content.DeleteProgram(program.ID))

	_, err = env.content.GetProgram(program.ID)
	assert.ErrorIs(t, err, util.ErrProgramNotFound)

	enrollments, err := env.enrollments.ListByProgram(program.ID)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
}

func TestDeleteItemMissing(t *testing.T) {
	env := newTestEnv(t)

	err := env.content.DeleteItem(9999)
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}
