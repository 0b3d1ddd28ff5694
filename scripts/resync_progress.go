// 手动触发全量进度对账脚本
//
// 目录变更会自动对账相关课程项目的报名台账，此脚本用于批量导入课程内容
// 或数据修复之后，对全部课程项目重新执行一次对账。
//
// 用法: go run scripts/resync_progress.go

package main

import (
	"log"
	"os"
	"studypath_backend/internal/config"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/internal/service"
	"studypath_backend/pkg/database"
	"studypath_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contentRepo := repository.NewContentItemRepository(db)
	sync := service.NewProgressSyncService(
		enrollmentRepo,
		contentRepo,
		service.NewStatsService(enrollmentRepo, nil, 0),
		service.NewKeyLocker(),
	)

	var programs []model.Program
	if err := db.Find(&programs).Error; err != nil {
		log.Fatalf("读取课程项目失败: %v", err)
	}

	for _, program := range programs {
		if err := sync.Resync(program.ID); err != nil {
			log.Printf("课程项目 %d 对账失败: %v", program.ID, err)
			continue
		}
		log.Printf("课程项目 %d 对账完成", program.ID)
	}

	log.Printf("全部完成，共 %d 个课程项目", len(programs))
}
