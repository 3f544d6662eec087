package db

import (
	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
)

// Migrate runs database migrations and seeds the fixed master data.
// tableNumbers is the configured table layout of the restaurant.
func Migrate(tableNumbers []string) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Category{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Table{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(tableNumbers); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

func seedInitialData(tableNumbers []string) error {
	logger.Info("Seeding initial data...")

	if err := seedCategories(); err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}
	if err := seedTables(tableNumbers); err != nil {
		logger.Error("Failed to seed tables", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedCategories 基本カテゴリの投入（メニュー本体は cmd/seed で取り込む）
func seedCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := []model.Category{
		{Name: "フード", DisplayOrder: 1},
		{Name: "ドリンク", DisplayOrder: 2},
		{Name: "デザート", DisplayOrder: 3},
		{Name: "ワンちゃんメニュー", DisplayOrder: 4, IsDogMenu: true},
	}

	if err := DB.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Categories seeded", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}

// seedTables 設定されたテーブル番号ごとに残高ゼロの行を用意する
func seedTables(tableNumbers []string) error {
	for _, number := range tableNumbers {
		table := model.Table{TableNumber: number}
		if err := DB.Where(model.Table{TableNumber: number}).FirstOrCreate(&table).Error; err != nil {
			return err
		}
	}

	logger.Info("Tables seeded", map[string]interface{}{
		"count": len(tableNumbers),
	})
	return nil
}
