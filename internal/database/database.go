package database

import (
	"fmt"

	"inovocb/config"
	"inovocb/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Level{},
		&models.RewardProgram{},
		&models.PointsAccount{},
		&models.PointTransaction{},
		&models.SpinWheel{},
		&models.SpinPrize{},
		&models.SpinHistory{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.LevelUpNotification{},
	)
}

// SeedDefaults inserts the baseline configuration rows (levels, the default
// program and the default wheel) if the tables are empty. Idempotent. The
// engine cannot run without its level table, so a seed failure is fatal to
// the caller.
func SeedDefaults(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Level{}).Count(&n).Error; err != nil {
		return fmt.Errorf("seed levels: %w", err)
	}
	if n == 0 {
		levels := []models.Level{
			{Level: 1, Name: "Bronze", Icon: "medal", Color: "#CD7F32", PointsRequired: 0, PointsMultiplier: 1.0},
			{Level: 2, Name: "Silver", Icon: "medal", Color: "#C0C0C0", PointsRequired: 500, PointsMultiplier: 1.1, CashbackBonus: 0.5, DailyBonusSpins: 1},
			{Level: 3, Name: "Gold", Icon: "trophy", Color: "#FFD700", PointsRequired: 2000, PointsMultiplier: 1.2, CashbackBonus: 1.0, DailyBonusSpins: 1},
			{Level: 4, Name: "Platinum", Icon: "crown", Color: "#E5E4E2", PointsRequired: 5000, PointsMultiplier: 1.5, CashbackBonus: 2.0, DailyBonusSpins: 2},
			{Level: 5, Name: "Diamond", Icon: "gem", Color: "#B9F2FF", PointsRequired: 15000, PointsMultiplier: 2.0, CashbackBonus: 3.0, DailyBonusSpins: 3},
		}
		if err := db.Create(&levels).Error; err != nil {
			return fmt.Errorf("seed levels: %w", err)
		}
	}

	if err := db.Model(&models.RewardProgram{}).Count(&n).Error; err != nil {
		return fmt.Errorf("seed program: %w", err)
	}
	if n == 0 {
		program := models.RewardProgram{
			Name:                "InovoCB Rewards",
			Slug:                "inovocb-rewards",
			Description:         "Default cashback rewards program",
			PointsPerDollar:     10,
			PointsPerReceipt:    5,
			DailyReceiptLimit:   20,
			MonthlyReceiptLimit: 500,
			IsActive:            true,
		}
		if err := db.Create(&program).Error; err != nil {
			return fmt.Errorf("seed program: %w", err)
		}
	}

	if err := db.Model(&models.SpinWheel{}).Count(&n).Error; err != nil {
		return fmt.Errorf("seed wheel: %w", err)
	}
	if n == 0 {
		wheel := models.SpinWheel{
			Name:       "Daily Wheel",
			IsActive:   true,
			PointsCost: 0,
			Prizes: []models.SpinPrize{
				{Name: "10 points", PrizeType: "points", PrizeValue: 10, Probability: 40, Order: 1, IsActive: true},
				{Name: "50 points", PrizeType: "points", PrizeValue: 50, Probability: 20, Order: 2, IsActive: true},
				{Name: "200 points", PrizeType: "points", PrizeValue: 200, Probability: 5, DailyLimit: 10, Order: 3, IsActive: true},
				{Name: "Free spin", PrizeType: "spin", PrizeValue: 1, Probability: 10, Order: 4, IsActive: true},
				{Name: "$1 cashback", PrizeType: "cashback", PrizeValue: 100, Probability: 5, DailyLimit: 5, Order: 5, IsActive: true},
				{Name: "Better luck next time", PrizeType: "nothing", PrizeValue: 0, Probability: 20, Order: 6, IsActive: true},
			},
		}
		if err := db.Create(&wheel).Error; err != nil {
			return fmt.Errorf("seed wheel: %w", err)
		}
	}
	return nil
}
