package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const programStatsKeyPrefix = "stats:program:"

// StatsService 只读统计聚合，按课程项目维度分类报名进度
type StatsService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client
	CacheTTL       time.Duration
}

func NewStatsService(enrollmentRepo *repository.EnrollmentRepository, rdb *redis.Client, cacheTTL time.Duration) *StatsService {
	return &StatsService{
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
		CacheTTL:       cacheTTL,
	}
}

// PercentBucket 完成率区间 [Min, Max] 内的报名数量
type PercentBucket struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// swagger:model ProgramStats
type ProgramStats struct {
	ProgramID  uint            `json:"programId"`
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	InProgress int             `json:"inProgress"`
	NotStarted int             `json:"notStarted"`
	Buckets    []PercentBucket `json:"buckets"`
}

// EnrollmentProgress 带完成率的报名视图
type EnrollmentProgress struct {
	EnrollmentID uint       `json:"enrollmentId"`
	UserID       uint       `json:"userId"`
	ProgramID    uint       `json:"programId"`
	Percent      float64    `json:"percent"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
}

// WithProgress 为报名列表附加完成率
func WithProgress(enrollments []model.Enrollment) []EnrollmentProgress {
	views := make([]EnrollmentProgress, len(enrollments))
	for i, e := range enrollments {
		views[i] = EnrollmentProgress{
			EnrollmentID: e.ID,
			UserID:       e.UserID,
			ProgramID:    e.ProgramID,
			Percent:      PercentComplete(e.Ledger),
			StartedAt:    e.StartedAt,
			CompletedAt:  e.CompletedAt,
		}
	}
	return views
}

// ProgramStats 课程项目的报名分类统计，带Redis读穿缓存
func (s *StatsService) ProgramStats(ctx context.Context, programID uint) (*ProgramStats, error) {
	key := fmt.Sprintf("%s%d", programStatsKeyPrefix, programID)

	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var cached ProgramStats
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("stats cache read failed", zap.Error(err))
		}
	}

	enrollments, err := s.EnrollmentRepo.ListByProgram(programID)
	if err != nil {
		return nil, err
	}
	stats := s.classify(programID, enrollments)

	if s.Redis != nil {
		payload, _ := json.Marshal(stats)
		if err := s.Redis.Set(ctx, key, payload, s.CacheTTL).Err(); err != nil {
			logger.Log.Warn("stats cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}

// InvalidateProgram 报名写路径（勾选/强制完成/重同步）后清理缓存
func (s *StatsService) InvalidateProgram(ctx context.Context, programID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("%s%d", programStatsKeyPrefix, programID)
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("stats cache invalidation failed", zap.Uint("programId", programID), zap.Error(err))
	}
}

func (s *StatsService) classify(programID uint, enrollments []model.Enrollment) *ProgramStats {
	stats := &ProgramStats{
		ProgramID: programID,
		Total:     len(enrollments),
		Buckets: []PercentBucket{
			{Min: 0, Max: 0.25},
			{Min: 0.25, Max: 0.5},
			{Min: 0.5, Max: 0.75},
			{Min: 0.75, Max: 1},
		},
	}

	for _, e := range enrollments {
		percent := PercentComplete(e.Ledger)
		switch {
		case IsFullyComplete(e.Ledger):
			stats.Completed++
		case percent > 0:
			stats.InProgress++
		default:
			stats.NotStarted++
		}
		for i := range stats.Buckets {
			b := &stats.Buckets[i]
			if percent >= b.Min && (percent < b.Max || (b.Max == 1 && percent == 1)) {
				b.Count++
				break
			}
		}
	}

	return stats
}

// ByPercentRange 返回完成率落在 [min, max] 区间内的报名
func (s *StatsService) ByPercentRange(programID uint, min, max float64) ([]EnrollmentProgress, error) {
	enrollments, err := s.EnrollmentRepo.ListByProgram(programID)
	if err != nil {
		return nil, err
	}

	var views []EnrollmentProgress
	for _, v := range WithProgress(enrollments) {
		if v.Percent >= min && v.Percent <= max {
			views = append(views, v)
		}
	}
	return views, nil
}

// Ranking 按完成率排序的报名列表；降序为“完成度最高”，并列时保持存储迭代顺序
func (s *StatsService) Ranking(programID uint, ascending bool) ([]EnrollmentProgress, error) {
	enrollments, err := s.EnrollmentRepo.ListByProgram(programID)
	if err != nil {
		return nil, err
	}

	views := WithProgress(enrollments)
	sort.SliceStable(views, func(i, j int) bool {
		if ascending {
			return views[i].Percent < views[j].Percent
		}
		return views[i].Percent > views[j].Percent
	})
	return views, nil
}
