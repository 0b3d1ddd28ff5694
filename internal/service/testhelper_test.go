package service

import (
	"fmt"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存库绑定在单一连接上，避免连接池拿到空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db *gorm.DB

	programRepo    *repository.ProgramRepository
	contentRepo    *repository.ContentItemRepository
	enrollmentRepo *repository.EnrollmentRepository
	quizRepo       *repository.QuizRepository

	stats       *StatsService
	sync        *ProgressSyncService
	enrollments *EnrollmentService
	content     *ContentService
	quizzes     *QuizService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:             db,
		programRepo:    repository.NewProgramRepository(db),
		contentRepo:    repository.NewContentItemRepository(db),
		enrollmentRepo: repository.NewEnrollmentRepository(db),
		quizRepo:       repository.NewQuizRepository(db),
	}

	locks := NewKeyLocker()
	env.stats = NewStatsService(env.enrollmentRepo, nil, 0)
	env.sync = NewProgressSyncService(env.enrollmentRepo, env.contentRepo, env.stats, locks)
	env.enrollments = NewEnrollmentService(env.enrollmentRepo, env.programRepo, env.sync, env.stats, locks)
	env.content = NewContentService(env.contentRepo, env.programRepo, env.sync)
	env.quizzes = NewQuizService(env.quizRepo, env.enrollments)
	return env
}

// createProgram 建一个课程项目并附带 n 条内容
func (env *testEnv) createProgram(t *testing.T, itemCount int) (*model.Program, []model.ContentItem) {
	t.Helper()

	program := &model.Program{Title: "测试课程", IsPublished: true}
	require.NoError(t, env.programRepo.Create(program))

	items := make([]model.ContentItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		item := &model.ContentItem{
			ProgramID: program.ID,
			Title:     fmt.Sprintf("第%d课", i+1),
			Type:      model.ContentArticle,
			Order:     i + 1,
		}
		require.NoError(t, env.contentRepo.Create(item))
		items = append(items, *item)
	}
	return program, items
}

func (env *testEnv) reload(t *testing.T, enrollmentID uint) *model.Enrollment {
	t.Helper()
	enrollment, err := env.enrollmentRepo.FindByID(enrollmentID)
	require.NoError(t, err)
	return enrollment
}
