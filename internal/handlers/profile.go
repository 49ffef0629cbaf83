package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/models"
	"github.com/jobpilot-dev/jobpilot/internal/services"
	"github.com/jobpilot-dev/jobpilot/internal/types"
	"github.com/jobpilot-dev/jobpilot/internal/utils"
	"gorm.io/gorm"
)

// GetProfile returns the caller's profile, creating an empty one on first
// read.
func GetProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	profile, err := getOrCreateProfile(userID)

	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error retrieving profile"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"profile": profileResponse(profile)},
	})
}

// UpdateProfile replaces the whole profile document, upserting when none
// exists yet.
func UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var sections types.ProfileSections

	if err := ctx.BindJSON(&sections); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid profile data"})
		return
	}

	var profile models.Profile

	err = db.DB.Where("user_id = ?", userID).First(&profile).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating profile"})
		return
	}

	profile.UserID = userID
	profile.LastUpdated = time.Now()

	if err := utils.EncodeSections(&profile, sections); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid profile data"})
		return
	}

	if err := db.DB.Save(&profile).Error; err != nil {
		log.Printf("Failed to save profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating profile"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    gin.H{"profile": profileResponse(&profile)},
	})
}

// UpdateSection patches one named section. personalInfo merges shallowly
// with existing data; every other section is replaced wholesale.
func UpdateSection(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Profile not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating section"})
		}
		return
	}

	sections := utils.DecodeSections(&profile)
	section := ctx.Param("section")

	switch section {
	case "personalInfo":
		var patch map[string]interface{}
		if err := ctx.BindJSON(&patch); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
		merged, err := mergePersonalInfo(sections.PersonalInfo, patch)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
		sections.PersonalInfo = merged
	case "education":
		if err := ctx.BindJSON(&sections.Education); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
	case "workExperience":
		if err := ctx.BindJSON(&sections.WorkExperience); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
	case "projects":
		if err := ctx.BindJSON(&sections.Projects); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
	case "skills":
		if err := ctx.BindJSON(&sections.Skills); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
	case "certifications":
		if err := ctx.BindJSON(&sections.Certifications); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
	case "languages":
		if err := ctx.BindJSON(&sections.Languages); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
			return
		}
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section"})
		return
	}

	profile.LastUpdated = time.Now()

	if err := utils.EncodeSections(&profile, sections); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section data"})
		return
	}

	if err := db.DB.Save(&profile).Error; err != nil {
		log.Printf("Failed to save profile section: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating section"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": section + " updated successfully",
		"data":    gin.H{"profile": profileResponse(&profile)},
	})
}

// ValidateProfile reports completeness, the missing required elements, and
// whether the profile clears the 80-point bar.
func ValidateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": gin.H{
					"completeness":  0,
					"missingFields": []string{"Profile not created"},
					"isComplete":    false,
				},
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error validating profile"})
		return
	}

	sections := utils.DecodeSections(&profile)
	completeness := utils.CalculateCompleteness(sections)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"completeness":  completeness,
			"missingFields": utils.MissingFields(sections),
			"isComplete":    completeness >= 80,
		},
	})
}

// GetSkillSuggestions serves the curated skill lists used by the profile
// editor.
func GetSkillSuggestions(ctx *gin.Context) {
	category := ctx.Query("category")
	skillType := ctx.Query("type")

	var suggestions []string

	if skillType == "soft" {
		suggestions = softSkillSuggestions
	} else if skills, exists := technicalSkillSuggestions[category]; exists {
		suggestions = skills
	} else {
		for _, skills := range technicalSkillSuggestions {
			suggestions = append(suggestions, skills...)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"suggestions": suggestions},
	})
}

// CritiqueProfile forwards the profile and a job description to the
// workflow collaborator and relays its critique.
func CritiqueProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Profile not found. Please complete your profile first."})
		return
	}

	var application models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("application_id"), userID).First(&application).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		return
	}

	webhookURL := os.Getenv("N8N_CRITIQUE_WEBHOOK_URL")

	if webhookURL == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Profile critique service is not configured"})
		return
	}

	payload := services.GenerationPayload{
		Profile:        utils.DecodeSections(&profile),
		JobDescription: application.JobDescription,
		JobPosition:    application.Position,
		Company:        application.Company,
	}

	body, err := services.CallWebhook(webhookURL, payload)

	if err != nil {
		status, message := upstreamFailure(err, "critique service")
		ctx.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	var critique interface{}
	if err := json.Unmarshal(body, &critique); err != nil {
		critique = string(body)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"critique": critique,
			"jobApplication": gin.H{
				"id":       application.ID,
				"position": application.Position,
				"company":  application.Company,
			},
		},
	})
}

func getOrCreateProfile(userID uint) (*models.Profile, error) {
	var profile models.Profile

	err := db.DB.Where("user_id = ?", userID).First(&profile).Error

	if err == nil {
		return &profile, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{UserID: userID, LastUpdated: time.Now()}

	if err := utils.EncodeSections(&profile, utils.DecodeSections(&profile)); err != nil {
		return nil, err
	}

	if err := db.DB.Create(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func profileResponse(profile *models.Profile) gin.H {
	sections := utils.DecodeSections(profile)

	return gin.H{
		"id":             profile.ID,
		"personalInfo":   sections.PersonalInfo,
		"education":      sections.Education,
		"workExperience": sections.WorkExperience,
		"projects":       sections.Projects,
		"skills":         sections.Skills,
		"certifications": sections.Certifications,
		"languages":      sections.Languages,
		"completeness":   profile.Completeness,
		"lastUpdated":    profile.LastUpdated,
	}
}

// mergePersonalInfo overlays only the fields present in the patch onto the
// existing personal info.
func mergePersonalInfo(existing types.PersonalInfo, patch map[string]interface{}) (types.PersonalInfo, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return existing, err
	}

	var base map[string]interface{}
	if err := json.Unmarshal(raw, &base); err != nil {
		return existing, err
	}
	if base == nil {
		base = map[string]interface{}{}
	}

	for key, value := range patch {
		base[key] = value
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return existing, err
	}

	var result types.PersonalInfo
	if err := json.Unmarshal(merged, &result); err != nil {
		return existing, err
	}

	return result, nil
}

var technicalSkillSuggestions = map[string][]string{
	"Frontend": {"React", "Vue", "Angular", "TypeScript", "JavaScript", "HTML", "CSS", "Tailwind", "Redux", "Next.js", "Svelte", "SASS"},
	"Backend":  {"Node.js", "Express", "Python", "Django", "Flask", "Java", "Spring Boot", "PHP", "Laravel", "Ruby on Rails", ".NET", "FastAPI"},
	"Mobile":   {"React Native", "Flutter", "Swift", "Kotlin", "Android", "iOS", "Xamarin", "Ionic"},
	"Database": {"MongoDB", "PostgreSQL", "MySQL", "Redis", "Firebase", "DynamoDB", "Oracle", "SQL Server", "Cassandra"},
	"DevOps":   {"Docker", "Kubernetes", "AWS", "Azure", "GCP", "CI/CD", "Jenkins", "GitHub Actions", "Terraform", "Ansible"},
	"Testing":  {"Jest", "Mocha", "Cypress", "Selenium", "JUnit", "PyTest", "Testing Library"},
	"Design":   {"Figma", "Adobe XD", "Sketch", "Photoshop", "Illustrator", "UI/UX Design"},
	"Other":    {"Git", "REST API", "GraphQL", "Microservices", "Agile", "Scrum"},
}

var softSkillSuggestions = []string{
	"Communication", "Leadership", "Teamwork", "Problem Solving",
	"Time Management", "Adaptability", "Critical Thinking", "Creativity",
	"Attention to Detail", "Project Management", "Conflict Resolution",
	"Decision Making", "Emotional Intelligence", "Negotiation",
}
