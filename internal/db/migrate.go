package db

import (
	"os"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/obaplab/obap-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.CompanyLocationRequest{},
		&model.Restaurant{},
		&model.Menu{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	// 사용자당 대기 중인 회사 위치 요청은 하나만 허용
	if err := createPartialIndexes(); err != nil {
		logger.Error("Failed to create partial indexes", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

func createPartialIndexes() error {
	// AutoMigrate가 표현하지 못하는 조건부 유니크 인덱스
	stmt := `CREATE UNIQUE INDEX IF NOT EXISTS idx_company_location_requests_pending_user
		ON company_location_requests (user_id)
		WHERE status = 'pending' AND deleted_at IS NULL`
	return DB.Exec(stmt).Error
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedAdminAccount(); err != nil {
		logger.Error("Failed to seed admin account", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedAdminAccount 환경변수에 지정된 관리자 계정 생성
func seedAdminAccount() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Info("Admin credentials not configured, skipping admin seeding")
		return nil
	}

	var count int64
	if err := DB.Model(&model.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admin account already exists, skipping...", map[string]interface{}{
			"email": adminEmail,
		})
		return nil
	}

	hash, err := util.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		Username:     "admin",
		Nickname:     "관리자",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Admin account seeded successfully", map[string]interface{}{
		"email": adminEmail,
	})
	return nil
}
