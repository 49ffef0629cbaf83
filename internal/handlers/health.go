package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/db"
)

func HealthCheck(c *gin.Context) {
	status := "ok"
	message := "JobPilot is running"

	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		message = "Database is unreachable"
	}

	c.JSON(200, gin.H{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
