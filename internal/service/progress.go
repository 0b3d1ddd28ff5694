package service

import (
	"studypath_backend/internal/model"
	"time"
)

// PercentComplete 台账完成比例，空台账为 0
func PercentComplete(ledger model.ProgressLedger) float64 {
	if len(ledger) == 0 {
		return 0
	}
	done := 0
	for _, e := range ledger {
		if e.Complete {
			done++
		}
	}
	return float64(done) / float64(len(ledger))
}

// IsFullyComplete 台账非空且全部条目完成
func IsFullyComplete(ledger model.ProgressLedger) bool {
	if len(ledger) == 0 {
		return false
	}
	for _, e := range ledger {
		if !e.Complete {
			return false
		}
	}
	return true
}

// DeriveCompletedAt 根据台账当前状态推导完成时间：
// 全部完成且尚未记录完成时间则取当前时间；不再全部完成则清空；其余保持不变。
func DeriveCompletedAt(ledger model.ProgressLedger, current *time.Time) *time.Time {
	if IsFullyComplete(ledger) {
		if current == nil {
			now := time.Now()
			return &now
		}
		return current
	}
	return nil
}
