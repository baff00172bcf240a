package db

import (
	types "github.com/diperi/dugout-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Profiles
		// =========================
		&types.User{},

		// =========================
		// Chores
		// =========================
		&types.TaskTemplate{},
		&types.Task{},
		&types.TaskSchedule{},

		// =========================
		// Rewards
		// =========================
		&types.Reward{},
		&types.RewardRule{},
		&types.RewardRedemption{},

		// =========================
		// Objectives / key results
		// =========================
		&types.Objective{},

		// =========================
		// Mini-games
		// =========================
		&types.BaseballGame{},
		&types.BaseballStats{},
		&types.PitchingGame{},
		&types.PitchingStats{},
	)
}
