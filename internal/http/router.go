package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/diperi/dugout-backend/internal/http/handlers"
	httpMW "github.com/diperi/dugout-backend/internal/http/middleware"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	SessionMiddleware *httpMW.SessionMiddleware

	ProfileHandler   *httpH.ProfileHandler
	TaskHandler      *httpH.TaskHandler
	TemplateHandler  *httpH.TemplateHandler
	ScheduleHandler  *httpH.ScheduleHandler
	RewardHandler    *httpH.RewardHandler
	OKRHandler       *httpH.OKRHandler
	BaseballHandler  *httpH.BaseballHandler
	PitchingHandler  *httpH.PitchingHandler
	StatsHandler     *httpH.StatsHandler
	HouseRuleHandler *httpH.HouseRuleHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("dugout"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Profile selection (public; the family shares one device)
		if cfg.ProfileHandler != nil {
			api.GET("/profiles", cfg.ProfileHandler.List)
			api.POST("/profiles", cfg.ProfileHandler.Create)
			api.GET("/profiles/:id", cfg.ProfileHandler.Get)
			api.DELETE("/profiles/:id", cfg.ProfileHandler.Delete)
			api.GET("/profiles/:id/avatar", cfg.ProfileHandler.Avatar)
			api.POST("/profiles/:id/select", cfg.ProfileHandler.Select)
		}

		// Daily schedule run (public; hit by cron)
		if cfg.ScheduleHandler != nil {
			api.POST("/schedules/run", cfg.ScheduleHandler.Run)
		}
	}

	protected := api.Group("/")
	{
		if cfg.SessionMiddleware != nil {
			protected.Use(cfg.SessionMiddleware.RequireSession())
		}

		if cfg.ProfileHandler != nil {
			protected.GET("/me", cfg.ProfileHandler.Me)
			protected.POST("/logout", cfg.ProfileHandler.Logout)
		}

		// Chores
		if cfg.TaskHandler != nil {
			protected.GET("/tasks/today", cfg.TaskHandler.Today)
			protected.POST("/tasks/:id/complete", cfg.TaskHandler.Complete)
		}

		if cfg.TemplateHandler != nil {
			protected.GET("/task-templates", cfg.TemplateHandler.List)
			protected.POST("/task-templates", cfg.TemplateHandler.Create)
			protected.PUT("/task-templates/:id", cfg.TemplateHandler.Update)
			protected.DELETE("/task-templates/:id", cfg.TemplateHandler.Archive)
		}

		if cfg.ScheduleHandler != nil {
			protected.GET("/schedules", cfg.ScheduleHandler.List)
			protected.PUT("/schedules", cfg.ScheduleHandler.Upsert)
			protected.DELETE("/schedules/:id", cfg.ScheduleHandler.Delete)
		}

		// Rewards
		if cfg.RewardHandler != nil {
			protected.GET("/rewards", cfg.RewardHandler.List)
			protected.POST("/rewards", cfg.RewardHandler.Create)
			protected.PUT("/rewards/:id", cfg.RewardHandler.Update)
			protected.DELETE("/rewards/:id", cfg.RewardHandler.Delete)
			protected.POST("/rewards/:id/redeem", cfg.RewardHandler.Redeem)
			protected.GET("/rewards/:id/rules", cfg.RewardHandler.ListRules)
			protected.PUT("/reward-rules", cfg.RewardHandler.UpsertRule)
			protected.DELETE("/reward-rules/:id", cfg.RewardHandler.DeleteRule)
		}

		// Objectives
		if cfg.OKRHandler != nil {
			protected.GET("/objectives", cfg.OKRHandler.List)
			protected.POST("/objectives", cfg.OKRHandler.Create)
			protected.PUT("/objectives/:id", cfg.OKRHandler.Update)
			protected.DELETE("/objectives/:id", cfg.OKRHandler.Delete)
			protected.PUT("/objectives/:id/key-results", cfg.OKRHandler.UpsertKeyResult)
			protected.DELETE("/objectives/:id/key-results/:krId", cfg.OKRHandler.DeleteKeyResult)
		}

		// Baseball
		if cfg.BaseballHandler != nil {
			protected.POST("/baseball/games", cfg.BaseballHandler.Start)
			protected.GET("/baseball/games", cfg.BaseballHandler.Recent)
			protected.GET("/baseball/games/:id", cfg.BaseballHandler.Get)
			protected.POST("/baseball/games/:id/hit", cfg.BaseballHandler.Hit)
			protected.POST("/baseball/games/:id/out", cfg.BaseballHandler.Out)
			protected.POST("/baseball/games/:id/end", cfg.BaseballHandler.End)
		}

		// Pitching
		if cfg.PitchingHandler != nil {
			protected.POST("/pitching/games", cfg.PitchingHandler.Start)
			protected.GET("/pitching/games/:id", cfg.PitchingHandler.Get)
			protected.POST("/pitching/games/:id/pitch", cfg.PitchingHandler.Pitch)
			protected.POST("/pitching/games/:id/end", cfg.PitchingHandler.End)
		}

		// Stats
		if cfg.StatsHandler != nil {
			protected.GET("/stats/me", cfg.StatsHandler.Me)
			protected.GET("/stats/leaderboard", cfg.StatsHandler.Leaderboard)
			protected.GET("/stats/head-to-head/:opponentId", cfg.StatsHandler.HeadToHead)
		}

		// House rules
		if cfg.HouseRuleHandler != nil {
			protected.GET("/house-rules", cfg.HouseRuleHandler.List)
			protected.POST("/house-rules/break", cfg.HouseRuleHandler.Break)
			protected.POST("/house-rules/reset", cfg.HouseRuleHandler.Reset)
		}
	}

	return r
}
