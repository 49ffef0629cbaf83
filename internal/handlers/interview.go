package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/internal/services"
)

// TechnicalInterview relays the request body to the technical quiz
// collaborator and returns whatever it answers.
func TechnicalInterview(ctx *gin.Context) {
	webhookURL := os.Getenv("N8N_TECHNICAL_QUIZ_WEBHOOK_URL")

	if webhookURL == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Technical interview service is not configured"})
		return
	}

	var payload map[string]interface{}

	if err := ctx.BindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	body, err := services.CallWebhook(webhookURL, payload)

	if err != nil {
		status, message := upstreamFailure(err, "Technical interview service")
		ctx.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    relayedBody(body),
	})
}

// HRInterview forwards one turn of an HR interview conversation. The
// collaborator keeps the conversation state keyed by session ID.
func HRInterview(ctx *gin.Context) {
	webhookURL := os.Getenv("N8N_HR_INTERVIEW_WEBHOOK_URL")

	if webhookURL == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "HR interview service is not configured"})
		return
	}

	var req struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
		Step      *int   `json:"step"`
	}

	if err := ctx.BindJSON(&req); err != nil || req.SessionID == "" || req.Message == "" || req.Step == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "sessionId, message and step are required"})
		return
	}

	body, err := services.CallWebhook(webhookURL, services.HRInterviewPayload{
		SessionID: req.SessionID,
		Message:   req.Message,
		Step:      *req.Step,
	})

	if err != nil {
		status, message := upstreamFailure(err, "HR interview service")
		ctx.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    relayedBody(body),
	})
}
