package service

import (
	"context"
	"errors"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/internal/util"
	"studypath_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// EnrollmentService 报名记录的存取与进度台账更新。
// 同一 (userID, programID) 上的写操作通过 KeyLocker 串行化。
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ProgramRepo    *repository.ProgramRepository
	Sync           *ProgressSyncService
	Stats          *StatsService
	Locks          *KeyLocker
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	programRepo *repository.ProgramRepository,
	sync *ProgressSyncService,
	stats *StatsService,
	locks *KeyLocker,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		ProgramRepo:    programRepo,
		Sync:           sync,
		Stats:          stats,
		Locks:          locks,
	}
}

// Enroll 创建报名并按当前目录播种台账，(userID, programID) 已存在时拒绝
func (s *EnrollmentService) Enroll(userID, programID uint) (*model.Enrollment, error) {
	if _, err := s.ProgramRepo.FindByID(programID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}

	unlock := s.Locks.Lock(userID, programID)
	defer unlock()

	if _, err := s.EnrollmentRepo.FindByUserAndProgram(userID, programID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ledger, err := s.Sync.Seed(programID)
	if err != nil {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:    userID,
		ProgramID: programID,
		StartedAt: time.Now(),
		Ledger:    ledger,
	}

	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.Stats.InvalidateProgram(context.Background(), programID)
	return enrollment, nil
}

func (s *EnrollmentService) Get(userID, programID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndProgram(userID, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByUser(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

func (s *EnrollmentService) ListByProgram(programID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByProgram(programID)
}

func (s *EnrollmentService) ListAll() ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListAll()
}

// Unenroll 退出报名，记录与台账整体删除，不可恢复
func (s *EnrollmentService) Unenroll(userID, programID uint) error {
	unlock := s.Locks.Lock(userID, programID)
	defer unlock()

	enrollment, err := s.EnrollmentRepo.FindByUserAndProgram(userID, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}

	if err := s.EnrollmentRepo.Delete(enrollment); err != nil {
		return err
	}
	s.Stats.InvalidateProgram(context.Background(), programID)
	return nil
}

// SetContentCompletion 将台账中一条内容的完成标记设为指定值
func (s *EnrollmentService) SetContentCompletion(userID, programID, contentID uint, complete bool) (*model.Enrollment, error) {
	return s.applyCompletion(userID, programID, contentID, func(bool) bool { return complete })
}

// ToggleContentCompletion 翻转台账中一条内容的完成标记
func (s *EnrollmentService) ToggleContentCompletion(userID, programID, contentID uint) (*model.Enrollment, error) {
	return s.applyCompletion(userID, programID, contentID, func(current bool) bool { return !current })
}

func (s *EnrollmentService) applyCompletion(userID, programID, contentID uint, apply func(bool) bool) (*model.Enrollment, error) {
	unlock := s.Locks.Lock(userID, programID)
	defer unlock()

	enrollment, err := s.EnrollmentRepo.FindByUserAndProgram(userID, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	idx := -1
	for i, e := range enrollment.Ledger {
		if e.ContentID == contentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, util.ErrContentNotInLedger
	}

	enrollment.Ledger[idx].Complete = apply(enrollment.Ledger[idx].Complete)

	wasComplete := enrollment.CompletedAt != nil
	enrollment.CompletedAt = DeriveCompletedAt(enrollment.Ledger, enrollment.CompletedAt)

	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}

	if !wasComplete && enrollment.CompletedAt != nil {
		monitoring.EnrollmentCompletions.Inc()
	}
	s.Stats.InvalidateProgram(context.Background(), programID)
	return enrollment, nil
}

// ForceComplete 管理操作：全部条目置为完成并记录完成时间。
// 之后的勾选/重同步仍按普通完成规则处理，可能再次清空完成时间。
func (s *EnrollmentService) ForceComplete(enrollmentID uint) (*model.Enrollment, error) {
	ref, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	unlock := s.Locks.Lock(ref.UserID, ref.ProgramID)
	defer unlock()

	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	for i := range enrollment.Ledger {
		enrollment.Ledger[i].Complete = true
	}
	wasComplete := enrollment.CompletedAt != nil
	now := time.Now()
	enrollment.CompletedAt = &now

	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}

	if !wasComplete {
		monitoring.EnrollmentCompletions.Inc()
	}
	s.Stats.InvalidateProgram(context.Background(), enrollment.ProgramID)
	return enrollment, nil
}

// markCompletedByQuiz 测验全对后的完成落账；锁内复核内容仍全部完成
func (s *EnrollmentService) markCompletedByQuiz(userID, programID uint) error {
	unlock := s.Locks.Lock(userID, programID)
	defer unlock()

	enrollment, err := s.EnrollmentRepo.FindByUserAndProgram(userID, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}

	if enrollment.CompletedAt != nil || !IsFullyComplete(enrollment.Ledger) {
		return nil
	}

	now := time.Now()
	enrollment.CompletedAt = &now
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return err
	}

	monitoring.EnrollmentCompletions.Inc()
	s.Stats.InvalidateProgram(context.Background(), programID)
	return nil
}
