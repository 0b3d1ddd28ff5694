package service

import (
	"studypath_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ledgerOf(flags ...bool) model.ProgressLedger {
	ledger := make(model.ProgressLedger, 0, len(flags))
	for i, f := range flags {
		ledger = append(ledger, model.ProgressEntry{ContentID: uint(i + 1), Complete: f})
	}
	return ledger
}

func TestPercentComplete(t *testing.T) {
	assert.Equal(t, 0.0, PercentComplete(nil))
	assert.Equal(t, 0.0, PercentComplete(model.ProgressLedger{}))
	assert.Equal(t, 0.0, PercentComplete(ledgerOf(false, false)))
	assert.Equal(t, 0.5, PercentComplete(ledgerOf(true, false)))
	assert.Equal(t, 1.0, PercentComplete(ledgerOf(true, true, true)))
}

func TestIsFullyComplete(t *testing.T) {
	// 空台账不算完成
	assert.False(t, IsFullyComplete(nil))
	assert.False(t, IsFullyComplete(model.ProgressLedger{}))

	assert.False(t, IsFullyComplete(ledgerOf(true, false)))
	assert.True(t, IsFullyComplete(ledgerOf(true)))
	assert.True(t, IsFullyComplete(ledgerOf(true, true)))
}

func TestDeriveCompletedAt(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	t.Run("全部完成时补记完成时间", func(t *testing.T) {
		got := DeriveCompletedAt(ledgerOf(true, true), nil)
		if assert.NotNil(t, got) {
			assert.WithinDuration(t, time.Now(), *got, time.Minute)
		}
	})

	t.Run("已有完成时间保持不变", func(t *testing.T) {
		got := DeriveCompletedAt(ledgerOf(true), &past)
		if assert.NotNil(t, got) {
			assert.Equal(t, past, *got)
		}
	})

	t.Run("不再全部完成时清空", func(t *testing.T) {
		assert.Nil(t, DeriveCompletedAt(ledgerOf(true, false), &past))
		assert.Nil(t, DeriveCompletedAt(model.ProgressLedger{}, &past))
	})
}
