package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GET /healthcheck
func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	if hh.db != nil {
		sqlDB, err := hh.db.DB()
		if err == nil {
			if err := sqlDB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
