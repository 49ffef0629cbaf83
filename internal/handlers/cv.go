package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/models"
	"github.com/jobpilot-dev/jobpilot/internal/services"
	"github.com/jobpilot-dev/jobpilot/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateCVRequest struct {
	VersionName  string `json:"versionName" binding:"required"`
	Description  string `json:"description"`
	SetAsDefault bool   `json:"setAsDefault"`
}

type UpdateCVRequest struct {
	VersionName string `json:"versionName" binding:"required"`
	Description string `json:"description"`
}

type GenerateCVRequest struct {
	JobApplicationID uint `json:"jobApplicationId" binding:"required"`
}

type SaveCVRequest struct {
	VersionName      string `json:"versionName" binding:"required"`
	Description      string `json:"description"`
	LatexCode        string `json:"latexCode"`
	JobApplicationID *uint  `json:"jobApplicationId"`
}

// ListCVs returns the caller's CV versions newest-first, without the heavy
// snapshot payload.
func ListCVs(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var cvs []models.CV

	if err := db.DB.Select("id, user_id, version_name, description, generated_date, latex_code, usage_count, created_at, updated_at").
		Where("user_id = ?", userID).
		Order("generated_date DESC").
		Find(&cvs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching CVs"})
		return
	}

	defaultID := defaultCVID(ctx)

	response := make([]gin.H, 0, len(cvs))
	for i := range cvs {
		response = append(response, cvResponse(&cvs[i], defaultID, false))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(response),
		"data":    response,
	})
}

func GetCV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var cv models.CV

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "CV not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching CV"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cvResponse(&cv, defaultCVID(ctx), true),
	})
}

// CreateCV snapshots the caller's current profile into a new immutable
// version. The account email is merged into the snapshot's personal info.
func CreateCV(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req CreateCVRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Version name is required"})
		return
	}

	snapshot, err := snapshotProfile(currentUser.ID, currentUser.Email)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Profile not found. Please create a profile first."})
		} else {
			log.Printf("Failed to snapshot profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating CV"})
		}
		return
	}

	cv := models.CV{
		UserID:          currentUser.ID,
		VersionName:     req.VersionName,
		Description:     req.Description,
		GeneratedDate:   time.Now(),
		ProfileSnapshot: snapshot,
	}

	if err := db.DB.Create(&cv).Error; err != nil {
		log.Printf("Failed to create CV: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating CV"})
		return
	}

	defaultID := defaultCVID(ctx)

	if req.SetAsDefault {
		if err := db.DB.Model(&models.User{}).Where("id = ?", currentUser.ID).
			Update("default_cv_id", cv.ID).Error; err != nil {
			log.Printf("Failed to set default CV: %v", err)
		} else {
			defaultID = &cv.ID
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "CV version created successfully",
		"data":    cvResponse(&cv, defaultID, true),
	})
}

// UpdateCV changes version name and description only; the snapshot stays
// untouched.
func UpdateCV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req UpdateCVRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Version name is required"})
		return
	}

	var cv models.CV

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "CV not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating CV"})
		}
		return
	}

	cv.VersionName = req.VersionName
	cv.Description = req.Description

	if err := db.DB.Save(&cv).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating CV"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CV updated successfully",
		"data":    cvResponse(&cv, defaultCVID(ctx), false),
	})
}

// SetDefaultCV swaps the single default pointer on the user record, so the
// previous default is unset in the same write.
func SetDefaultCV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var cv models.CV

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "CV not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error setting default CV"})
		}
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("default_cv_id", cv.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error setting default CV"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Default CV updated successfully",
		"data":    cvResponse(&cv, &cv.ID, false),
	})
}

// DeleteCV hard-deletes a version. Applications that reference it keep the
// dangling id; readers resolve it to null.
func DeleteCV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var cv models.CV

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "CV not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting CV"})
		}
		return
	}

	if err := db.DB.Delete(&cv).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting CV"})
		return
	}

	if err := db.DB.Model(&models.User{}).
		Where("id = ? AND default_cv_id = ?", userID, cv.ID).
		Update("default_cv_id", nil).Error; err != nil {
		log.Printf("Failed to clear default CV pointer: %v", err)
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "CV deleted successfully"})
}

// DownloadCV returns the snapshot as an attachment.
func DownloadCV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var cv models.CV

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "CV not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error downloading CV"})
		}
		return
	}

	document := map[string]interface{}{}
	if len(cv.ProfileSnapshot) > 0 {
		_ = json.Unmarshal(cv.ProfileSnapshot, &document)
	}
	document["version"] = cv.VersionName
	document["generatedDate"] = cv.GeneratedDate

	filename := "cv-" + strings.ReplaceAll(cv.VersionName, " ", "-") + ".json"
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.JSON(http.StatusOK, document)
}

// GetCVStats summarizes version usage for the caller.
func GetCVStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var cvs []models.CV

	if err := db.DB.Select("id, version_name, usage_count, generated_date").
		Where("user_id = ?", userID).
		Order("usage_count DESC").
		Find(&cvs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching CV statistics"})
		return
	}

	defaultID := defaultCVID(ctx)

	var defaultSummary, mostUsedSummary gin.H

	if defaultID != nil {
		for i := range cvs {
			if cvs[i].ID == *defaultID {
				defaultSummary = gin.H{"id": cvs[i].ID, "name": cvs[i].VersionName}
				break
			}
		}
	}

	if len(cvs) > 0 {
		mostUsedSummary = gin.H{
			"id":         cvs[0].ID,
			"name":       cvs[0].VersionName,
			"usageCount": cvs[0].UsageCount,
		}
	}

	summaries := make([]gin.H, 0, len(cvs))
	for i := range cvs {
		summaries = append(summaries, cvResponse(&cvs[i], defaultID, false))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":     len(cvs),
			"defaultCV": defaultSummary,
			"mostUsed":  mostUsedSummary,
			"cvs":       summaries,
		},
	})
}

// GenerateCV forwards the profile and a job description to the workflow
// collaborator and returns the extracted document text.
func GenerateCV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req GenerateCVRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Job application ID is required"})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Profile not found. Please create a profile first."})
		return
	}

	var application models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", req.JobApplicationID, userID).First(&application).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		return
	}

	webhookURL := os.Getenv("N8N_CV_WEBHOOK_URL")

	if webhookURL == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "CV generation service is not configured"})
		return
	}

	payload := services.GenerationPayload{
		Profile:        utils.DecodeSections(&profile),
		JobDescription: application.JobDescription,
		JobPosition:    application.Position,
		Company:        application.Company,
	}

	latex, err := services.GenerateDocument(webhookURL, payload)

	if err != nil {
		status, message := upstreamFailure(err, "CV generation service")
		ctx.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"latex": latex},
	})
}

// SaveGeneratedCV persists previously generated text as a new version with a
// fresh snapshot. If an application id is supplied but does not resolve for
// this user, the CV still exists; the response reports the missing
// application.
func SaveGeneratedCV(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req SaveCVRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Version name is required"})
		return
	}

	snapshot, err := snapshotProfile(currentUser.ID, currentUser.Email)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Profile not found. Please create a profile first."})
		} else {
			log.Printf("Failed to snapshot profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error saving CV"})
		}
		return
	}

	cv := models.CV{
		UserID:          currentUser.ID,
		VersionName:     req.VersionName,
		Description:     req.Description,
		GeneratedDate:   time.Now(),
		LatexCode:       req.LatexCode,
		ProfileSnapshot: snapshot,
	}

	if err := db.DB.Create(&cv).Error; err != nil {
		log.Printf("Failed to save CV: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error saving CV"})
		return
	}

	if req.JobApplicationID != nil {
		var application models.JobApplication

		if err := db.DB.Where("id = ? AND user_id = ?", *req.JobApplicationID, currentUser.ID).
			First(&application).Error; err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Application not found; CV version was saved",
				"data":    cvResponse(&cv, nil, false),
			})
			return
		}

		if err := db.DB.Model(&application).Update("cv_version_id", cv.ID).Error; err != nil {
			log.Printf("Failed to attach CV to application: %v", err)
		} else {
			incrementCVUsage(cv.ID)
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "CV version saved successfully",
		"data":    cvResponse(&cv, defaultCVID(ctx), false),
	})
}

// incrementCVUsage bumps the counter in a single atomic UPDATE so concurrent
// attachments cannot lose increments.
func incrementCVUsage(cvID uint) {
	if err := db.DB.Model(&models.CV{}).Where("id = ?", cvID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
		log.Printf("Failed to increment CV usage count: %v", err)
	}
}

func snapshotProfile(userID uint, email string) (datatypes.JSON, error) {
	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}

	sections := utils.DecodeSections(&profile)
	sections.PersonalInfo.Email = email

	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}

func defaultCVID(ctx *gin.Context) *uint {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		return nil
	}

	var user models.User

	if err := db.DB.Select("default_cv_id").First(&user, currentUser.ID).Error; err != nil {
		return nil
	}

	return user.DefaultCVID
}

func cvResponse(cv *models.CV, defaultID *uint, includeSnapshot bool) gin.H {
	response := gin.H{
		"id":            cv.ID,
		"versionName":   cv.VersionName,
		"description":   cv.Description,
		"generatedDate": cv.GeneratedDate,
		"latexCode":     cv.LatexCode,
		"usageCount":    cv.UsageCount,
		"isDefault":     defaultID != nil && *defaultID == cv.ID,
	}

	if includeSnapshot {
		var snapshot interface{}
		if len(cv.ProfileSnapshot) > 0 {
			_ = json.Unmarshal(cv.ProfileSnapshot, &snapshot)
		}
		response["profileSnapshot"] = snapshot
	}

	return response
}
