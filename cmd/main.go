package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/diperi/dugout-backend/internal/clients/redis"
	"github.com/diperi/dugout-backend/internal/data/db"
	gamesrepo "github.com/diperi/dugout-backend/internal/data/repos/games"
	okrrepo "github.com/diperi/dugout-backend/internal/data/repos/okr"
	rewardsrepo "github.com/diperi/dugout-backend/internal/data/repos/rewards"
	tasksrepo "github.com/diperi/dugout-backend/internal/data/repos/tasks"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	httpx "github.com/diperi/dugout-backend/internal/http"
	httpH "github.com/diperi/dugout-backend/internal/http/handlers"
	httpMW "github.com/diperi/dugout-backend/internal/http/middleware"
	"github.com/diperi/dugout-backend/internal/observability"
	"github.com/diperi/dugout-backend/internal/platform/logger"
	"github.com/diperi/dugout-backend/internal/services"
	"github.com/diperi/dugout-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	sessionTTL := utils.GetEnvAsInt("SESSION_TTL", 43200, log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "dugout",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := databaseService.DB()

	// Sessions
	sessions, err := redis.NewSessionStore(log)
	if err != nil {
		log.Warn("Redis unavailable, using in-process session store", "error", err)
		sessions = redis.NewMemorySessionStore()
	}
	defer sessions.Close()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := userrepo.NewUserRepo(theDB, log)
	taskRepo := tasksrepo.NewTaskRepo(theDB, log)
	templateRepo := tasksrepo.NewTemplateRepo(theDB, log)
	scheduleRepo := tasksrepo.NewScheduleRepo(theDB, log)
	rewardRepo := rewardsrepo.NewRewardRepo(theDB, log)
	ruleRepo := rewardsrepo.NewRuleRepo(theDB, log)
	redemptionRepo := rewardsrepo.NewRedemptionRepo(theDB, log)
	objectiveRepo := okrrepo.NewObjectiveRepo(theDB, log)
	baseballGameRepo := gamesrepo.NewBaseballGameRepo(theDB, log)
	baseballStatsRepo := gamesrepo.NewBaseballStatsRepo(theDB, log)
	pitchingGameRepo := gamesrepo.NewPitchingGameRepo(theDB, log)
	pitchingStatsRepo := gamesrepo.NewPitchingStatsRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	avatarService, err := services.NewAvatarService(log)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	profileService := services.NewProfileService(theDB, log, userRepo, avatarService, sessions, time.Duration(sessionTTL)*time.Second)
	taskService := services.NewTaskService(theDB, log, taskRepo, templateRepo, userRepo)
	templateService := services.NewTemplateService(theDB, log, templateRepo)
	scheduleService := services.NewScheduleService(theDB, log, scheduleRepo, taskRepo, templateRepo, userRepo)
	rewardService := services.NewRewardService(theDB, log, rewardRepo, ruleRepo, redemptionRepo, taskRepo, userRepo)
	okrService := services.NewOKRService(theDB, log, objectiveRepo, taskRepo, userRepo)
	baseballService := services.NewBaseballService(theDB, log, baseballGameRepo, baseballStatsRepo, userRepo)
	pitchingService := services.NewPitchingService(theDB, log, pitchingGameRepo, pitchingStatsRepo, userRepo)
	statsService := services.NewStatsService(theDB, log, baseballStatsRepo, pitchingStatsRepo, baseballGameRepo, userRepo)
	houseRuleService := services.NewHouseRuleService(theDB, log, userRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	cfg := httpx.RouterConfig{
		Log:               log,
		SessionMiddleware: httpMW.NewSessionMiddleware(log, profileService),
		ProfileHandler:    httpH.NewProfileHandler(profileService),
		TaskHandler:       httpH.NewTaskHandler(taskService),
		TemplateHandler:   httpH.NewTemplateHandler(templateService),
		ScheduleHandler:   httpH.NewScheduleHandler(scheduleService),
		RewardHandler:     httpH.NewRewardHandler(rewardService),
		OKRHandler:        httpH.NewOKRHandler(okrService),
		BaseballHandler:   httpH.NewBaseballHandler(baseballService),
		PitchingHandler:   httpH.NewPitchingHandler(pitchingService),
		StatsHandler:      httpH.NewStatsHandler(statsService),
		HouseRuleHandler:  httpH.NewHouseRuleHandler(houseRuleService),
		HealthHandler:     httpH.NewHealthHandler(theDB),
	}

	srv := httpx.NewServer(cfg)
	log.Info("Starting server", "port", port)
	if err := srv.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
