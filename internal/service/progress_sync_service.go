package service

import (
	"context"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProgressSyncService 使每条报名的进度台账与课程项目当前目录保持一致：
// 目录即台账条目集合的唯一权威来源，勾选操作只翻转标记、不增删条目。
type ProgressSyncService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ContentRepo    *repository.ContentItemRepository
	Stats          *StatsService
	Locks          *KeyLocker
}

func NewProgressSyncService(
	enrollmentRepo *repository.EnrollmentRepository,
	contentRepo *repository.ContentItemRepository,
	stats *StatsService,
	locks *KeyLocker,
) *ProgressSyncService {
	return &ProgressSyncService{
		EnrollmentRepo: enrollmentRepo,
		ContentRepo:    contentRepo,
		Stats:          stats,
		Locks:          locks,
	}
}

// Seed 按目录顺序生成一份全部未完成的台账，仅在创建报名时使用
func (s *ProgressSyncService) Seed(programID uint) (model.ProgressLedger, error) {
	items, err := s.ContentRepo.ListByProgram(programID)
	if err != nil {
		return nil, err
	}

	ledger := make(model.ProgressLedger, 0, len(items))
	for _, item := range items {
		ledger = append(ledger, model.ProgressEntry{ContentID: item.ID, Complete: false})
	}
	return ledger, nil
}

// Resync 目录变更后对该课程项目的全部报名做对账：
// 仍存在的条目保留原完成标记，新条目默认未完成，已移除的条目静默丢弃。
// 单条报名失败只记录日志，不中断其余报名的对账。
func (s *ProgressSyncService) Resync(programID uint) error {
	items, err := s.ContentRepo.ListByProgram(programID)
	if err != nil {
		return err
	}

	enrollments, err := s.EnrollmentRepo.ListByProgram(programID)
	if err != nil {
		return err
	}

	failed := 0
	for i := range enrollments {
		if err := s.resyncOne(&enrollments[i], items); err != nil {
			failed++
			logger.Log.Error("enrollment resync failed",
				zap.Uint("programId", programID),
				zap.Uint("enrollmentId", enrollments[i].ID),
				zap.Uint("userId", enrollments[i].UserID),
				zap.Error(err),
			)
		}
	}

	if failed > 0 {
		logger.Log.Warn("program resync finished with failures",
			zap.Uint("programId", programID),
			zap.Int("failed", failed),
			zap.Int("total", len(enrollments)),
		)
	}

	s.Stats.InvalidateProgram(context.Background(), programID)
	return nil
}

func (s *ProgressSyncService) resyncOne(ref *model.Enrollment, items []model.ContentItem) error {
	unlock := s.Locks.Lock(ref.UserID, ref.ProgramID)
	defer unlock()

	// 锁内重新读取，避免覆盖并发勾选的结果
	enrollment, err := s.EnrollmentRepo.FindByID(ref.ID)
	if err != nil {
		return err
	}

	known := enrollment.Ledger.Flags()
	ledger := make(model.ProgressLedger, 0, len(items))
	for _, item := range items {
		ledger = append(ledger, model.ProgressEntry{
			ContentID: item.ID,
			Complete:  known[item.ID],
		})
	}

	enrollment.Ledger = ledger
	enrollment.CompletedAt = DeriveCompletedAt(enrollment.Ledger, enrollment.CompletedAt)

	return s.EnrollmentRepo.Save(enrollment)
}
