package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProgressEntry 进度台账中的一条记录，仅存在于 Enrollment.Ledger 内
type ProgressEntry struct {
	ContentID uint `json:"contentId"`
	Complete  bool `json:"complete"`
}

// ProgressLedger 按目录顺序排列的进度台账，以JSON列整体存储
type ProgressLedger []ProgressEntry

func (l ProgressLedger) Value() (driver.Value, error) {
	if l == nil {
		l = ProgressLedger{}
	}
	return json.Marshal(l)
}

func (l *ProgressLedger) Scan(value interface{}) error {
	if value == nil {
		*l = ProgressLedger{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported ledger column type %T", value)
	}
}

// Flags 返回 contentID -> complete 的查找表
func (l ProgressLedger) Flags() map[uint]bool {
	flags := make(map[uint]bool, len(l))
	for _, e := range l {
		flags[e.ContentID] = e.Complete
	}
	return flags
}

// Enrollment 用户与课程项目的报名记录，(UserID, ProgramID) 唯一
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID      uint           `gorm:"uniqueIndex:idx_user_program;type:bigint unsigned;not null" json:"userId"`
	ProgramID   uint           `gorm:"uniqueIndex:idx_user_program;type:bigint unsigned;not null" json:"programId"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	Ledger      ProgressLedger `gorm:"type:json" json:"ledger"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
