package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/models"
	"github.com/jobpilot-dev/jobpilot/internal/types"
	"github.com/jobpilot-dev/jobpilot/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationRequest struct {
	Company         string                `json:"company" binding:"required"`
	Position        string                `json:"position" binding:"required"`
	JobDescription  string                `json:"jobDescription" binding:"required"`
	Location        string                `json:"location"`
	ApplicationDate *time.Time            `json:"applicationDate"`
	Status          string                `json:"status"`
	CVVersionID     *uint                 `json:"cvVersion"`
	ApplicationURL  string                `json:"applicationUrl"`
	Notes           string                `json:"notes"`
	InterviewDates  []types.InterviewDate `json:"interviewDates"`
	Salary          *types.Salary         `json:"salary"`
	JobType         string                `json:"jobType"`
}

// Columns exposed for client-driven sorting.
var applicationSortColumns = map[string]string{
	"applicationDate": "application_date",
	"company":         "company",
	"position":        "position",
	"status":          "status",
	"createdAt":       "created_at",
}

func ListApplications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	query := db.DB.Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	if search := ctx.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(company) LIKE ? OR LOWER(position) LIKE ?", pattern, pattern)
	}

	query = query.Order(applicationOrderClause(ctx.DefaultQuery("sortBy", "-applicationDate")))

	var applications []models.JobApplication

	if err := query.Find(&applications).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching applications"})
		return
	}

	cvProjections := loadCVProjections(applications)

	response := make([]gin.H, 0, len(applications))
	for i := range applications {
		response = append(response, applicationResponse(&applications[i], cvProjections))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(response),
		"data":    response,
	})
}

func GetApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var application models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching application"})
		}
		return
	}

	cvProjections := loadCVProjections([]models.JobApplication{application})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    applicationResponse(&application, cvProjections),
	})
}

func CreateApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req ApplicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Company, position, and job description are required"})
		return
	}

	application, badRequest := applicationFromRequest(&req, userID)

	if badRequest != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": badRequest})
		return
	}

	if req.CVVersionID != nil {
		if !cvExistsForUser(*req.CVVersionID, userID) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "CV version not found"})
			return
		}
		application.CVVersionID = req.CVVersionID
	}

	if err := db.DB.Create(application).Error; err != nil {
		log.Printf("Failed to create application: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating application"})
		return
	}

	if application.CVVersionID != nil {
		incrementCVUsage(*application.CVVersionID)
	}

	cvProjections := loadCVProjections([]models.JobApplication{*application})

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application created successfully",
		"data":    applicationResponse(application, cvProjections),
	})
}

func UpdateApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var existing models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating application"})
		}
		return
	}

	var req ApplicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Company, position, and job description are required"})
		return
	}

	updates, badRequest := applicationUpdates(&req)

	if badRequest != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": badRequest})
		return
	}

	attachedNewCV := false

	if req.CVVersionID != nil {
		if !cvExistsForUser(*req.CVVersionID, userID) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "CV version not found"})
			return
		}
		updates["cv_version_id"] = *req.CVVersionID
		attachedNewCV = existing.CVVersionID == nil || *existing.CVVersionID != *req.CVVersionID
	}

	if err := db.DB.Model(&existing).Updates(updates).Error; err != nil {
		log.Printf("Failed to update application: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating application"})
		return
	}

	if attachedNewCV {
		incrementCVUsage(*req.CVVersionID)
	}

	if err := db.DB.Where("id = ?", existing.ID).First(&existing).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating application"})
		return
	}

	cvProjections := loadCVProjections([]models.JobApplication{existing})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application updated successfully",
		"data":    applicationResponse(&existing, cvProjections),
	})
}

// UpdateApplicationStatus is the status-only fast path used by board-style
// UIs.
func UpdateApplicationStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}

	if err := ctx.BindJSON(&req); err != nil || req.Status == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status is required"})
		return
	}

	if !slices.Contains(types.ApplicationStatuses, req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
		return
	}

	var application models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating status"})
		}
		return
	}

	if err := db.DB.Model(&application).Update("status", req.Status).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating status"})
		return
	}

	cvProjections := loadCVProjections([]models.JobApplication{application})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated successfully",
		"data":    applicationResponse(&application, cvProjections),
	})
}

func DeleteApplication(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var application models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting application"})
		}
		return
	}

	if err := db.DB.Delete(&application).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting application"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Application deleted successfully"})
}

func GetApplicationStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var counts []struct {
		Status string
		Count  int64
	}

	if err := db.DB.Model(&models.JobApplication{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching statistics"})
		return
	}

	var total, offers, interviews int64
	byStatus := gin.H{}

	for _, row := range counts {
		total += row.Count
		byStatus[row.Status] = row.Count
		switch row.Status {
		case "Offer":
			offers = row.Count
		case "Interview":
			interviews = row.Count
		}
	}

	var recent []models.JobApplication

	if err := db.DB.Select("id, company, position, status, application_date").
		Where("user_id = ?", userID).
		Order("application_date DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching statistics"})
		return
	}

	recentActivity := make([]gin.H, 0, len(recent))
	for _, app := range recent {
		recentActivity = append(recentActivity, gin.H{
			"id":              app.ID,
			"company":         app.Company,
			"position":        app.Position,
			"status":          app.Status,
			"applicationDate": app.ApplicationDate,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":          total,
			"byStatus":       byStatus,
			"successRate":    rateString(offers, total),
			"interviewRate":  rateString(interviews, total),
			"recentActivity": recentActivity,
		},
	})
}

// ExportApplications streams the caller's applications as CSV.
func ExportApplications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var applications []models.JobApplication

	if err := db.DB.Where("user_id = ?", userID).
		Order("application_date DESC").
		Find(&applications).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error exporting applications"})
		return
	}

	cvNames := map[uint]string{}
	for _, app := range applications {
		if app.CVVersionID != nil {
			cvNames[*app.CVVersionID] = ""
		}
	}

	if len(cvNames) > 0 {
		ids := make([]uint, 0, len(cvNames))
		for id := range cvNames {
			ids = append(ids, id)
		}

		var cvs []models.CV
		if err := db.DB.Select("id, version_name").Where("id IN ?", ids).Find(&cvs).Error; err == nil {
			for _, cv := range cvs {
				cvNames[cv.ID] = cv.VersionName
			}
		}
	}

	csv := buildApplicationsCSV(applications, cvNames)

	ctx.Header("Content-Disposition", "attachment; filename=job-applications.csv")
	ctx.Data(http.StatusOK, "text/csv", []byte(csv))
}

// buildApplicationsCSV renders one row per application. Commas in notes are
// replaced with semicolons so free text cannot break column alignment.
func buildApplicationsCSV(applications []models.JobApplication, cvNames map[uint]string) string {
	lines := make([]string, 0, len(applications)+1)
	lines = append(lines, "Company,Position,Location,Status,Application Date,CV Version,Notes")

	for _, app := range applications {
		cvName := "N/A"
		if app.CVVersionID != nil {
			if name, exists := cvNames[*app.CVVersionID]; exists && name != "" {
				cvName = name
			}
		}

		fields := []string{
			app.Company,
			app.Position,
			app.Location,
			app.Status,
			app.ApplicationDate.Format("1/2/2006"),
			cvName,
			strings.ReplaceAll(app.Notes, ",", ";"),
		}

		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

type quizQuestion struct {
	Type      string `json:"type"`
	Category  string `json:"category"`
	Question  string `json:"question"`
	RelatedTo string `json:"relatedTo"`
}

// GenerateInterviewQuiz composes rehearsal questions locally from the
// application's CV snapshot and its job description. No external call.
func GenerateInterviewQuiz(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var application models.JobApplication

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error generating quiz"})
		}
		return
	}

	var snapshot *types.ProfileSections

	if application.CVVersionID != nil {
		var cv models.CV
		if err := db.DB.Where("id = ?", *application.CVVersionID).First(&cv).Error; err == nil && len(cv.ProfileSnapshot) > 0 {
			var sections types.ProfileSections
			if err := json.Unmarshal(cv.ProfileSnapshot, &sections); err == nil {
				snapshot = &sections
			}
		}
	}

	pool := buildQuizPool(&application, snapshot)

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if len(pool) > 15 {
		pool = pool[:15]
	}

	var cvCount, requirementCount, generalCount int
	for _, q := range pool {
		switch q.Type {
		case "cv":
			cvCount++
		case "requirement":
			requirementCount++
		default:
			generalCount++
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"application": gin.H{
				"company":  application.Company,
				"position": application.Position,
			},
			"questions":      pool,
			"totalQuestions": len(pool),
			"breakdown": gin.H{
				"cvBased":          cvCount,
				"requirementBased": requirementCount,
				"general":          generalCount,
			},
		},
	})
}

// buildQuizPool assembles the full candidate pool deterministically; the
// caller shuffles and truncates.
func buildQuizPool(application *models.JobApplication, snapshot *types.ProfileSections) []quizQuestion {
	var pool []quizQuestion

	if snapshot != nil {
		skills := snapshot.Skills.Technical
		if len(skills) > 5 {
			skills = skills[:5]
		}
		for _, skill := range skills {
			pool = append(pool, quizQuestion{
				Type:      "cv",
				Category:  "Technical Skills",
				Question:  fmt.Sprintf("Describe your experience with %s and provide a specific example of how you've used it.", skill.Name),
				RelatedTo: skill.Name,
			})
		}

		if len(snapshot.WorkExperience) > 0 {
			recent := snapshot.WorkExperience[0]
			pool = append(pool, quizQuestion{
				Type:      "cv",
				Category:  "Experience",
				Question:  fmt.Sprintf("Tell me about your role as %s at %s. What were your main achievements?", recent.Position, recent.Company),
				RelatedTo: recent.Company + " - " + recent.Position,
			})
		}

		if len(snapshot.Projects) > 0 {
			project := snapshot.Projects[0]
			pool = append(pool, quizQuestion{
				Type:      "cv",
				Category:  "Projects",
				Question:  fmt.Sprintf("Walk me through your %s project. What challenges did you face and how did you overcome them?", project.Name),
				RelatedTo: project.Name,
			})
		}
	}

	for _, requirement := range extractRequirements(application.JobDescription) {
		pool = append(pool,
			quizQuestion{
				Type:      "requirement",
				Category:  "Job Requirements",
				Question:  fmt.Sprintf("How does your background align with this requirement: %q?", requirement),
				RelatedTo: requirement,
			},
			quizQuestion{
				Type:      "requirement",
				Category:  "Practical Application",
				Question:  fmt.Sprintf("Can you provide an example of when you've worked with or demonstrated: %s?", requirement),
				RelatedTo: requirement,
			},
		)
	}

	pool = append(pool,
		quizQuestion{
			Type:      "general",
			Category:  "Behavioral",
			Question:  fmt.Sprintf("Why are you interested in the %s position at %s?", application.Position, application.Company),
			RelatedTo: "Motivation",
		},
		quizQuestion{
			Type:      "general",
			Category:  "Behavioral",
			Question:  "What are your salary expectations for this role?",
			RelatedTo: "Compensation",
		},
		quizQuestion{
			Type:      "general",
			Category:  "Career Goals",
			Question:  "Where do you see yourself in 5 years?",
			RelatedTo: "Future Planning",
		},
	)

	return pool
}

// extractRequirements splits the free-text job description on common
// delimiters, dropping fragments of 10 characters or fewer, capped at 5.
func extractRequirements(jobDescription string) []string {
	fragments := strings.FieldsFunc(jobDescription, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})

	var requirements []string
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if len(trimmed) > 10 {
			requirements = append(requirements, trimmed)
			if len(requirements) == 5 {
				break
			}
		}
	}

	return requirements
}

func applicationFromRequest(req *ApplicationRequest, userID uint) (*models.JobApplication, string) {
	status := req.Status
	if status == "" {
		status = "Applied"
	} else if !slices.Contains(types.ApplicationStatuses, status) {
		return nil, "Invalid status"
	}

	jobType := req.JobType
	if jobType == "" {
		jobType = "Full-Time"
	} else if !slices.Contains(types.JobTypes, jobType) {
		return nil, "Invalid job type"
	}

	applicationDate := time.Now()
	if req.ApplicationDate != nil {
		applicationDate = *req.ApplicationDate
	}

	application := &models.JobApplication{
		UserID:          userID,
		Company:         strings.TrimSpace(req.Company),
		Position:        strings.TrimSpace(req.Position),
		Location:        strings.TrimSpace(req.Location),
		ApplicationDate: applicationDate,
		Status:          status,
		JobDescription:  strings.TrimSpace(req.JobDescription),
		ApplicationURL:  strings.TrimSpace(req.ApplicationURL),
		Notes:           strings.TrimSpace(req.Notes),
		JobType:         jobType,
	}

	if len(req.InterviewDates) > 0 {
		for _, interview := range req.InterviewDates {
			if interview.Type != "" && !slices.Contains(types.InterviewTypes, interview.Type) {
				return nil, "Invalid interview type"
			}
		}
		if raw, err := json.Marshal(req.InterviewDates); err == nil {
			application.InterviewDates = datatypes.JSON(raw)
		}
	}

	// An empty or zero-valued salary object is dropped entirely.
	if req.Salary != nil && (req.Salary.Min != 0 || req.Salary.Max != 0) {
		if raw, err := json.Marshal(req.Salary); err == nil {
			application.Salary = datatypes.JSON(raw)
		}
	}

	return application, ""
}

// applicationUpdates builds a column map from the provided fields only, with
// the same sanitization as create. Omitted or empty optional fields are left
// untouched on the row.
func applicationUpdates(req *ApplicationRequest) (map[string]interface{}, string) {
	updates := map[string]interface{}{
		"company":         strings.TrimSpace(req.Company),
		"position":        strings.TrimSpace(req.Position),
		"job_description": strings.TrimSpace(req.JobDescription),
	}

	if req.Location != "" {
		updates["location"] = strings.TrimSpace(req.Location)
	}

	if req.ApplicationDate != nil {
		updates["application_date"] = *req.ApplicationDate
	}

	if req.Status != "" {
		if !slices.Contains(types.ApplicationStatuses, req.Status) {
			return nil, "Invalid status"
		}
		updates["status"] = req.Status
	}

	if req.JobType != "" {
		if !slices.Contains(types.JobTypes, req.JobType) {
			return nil, "Invalid job type"
		}
		updates["job_type"] = req.JobType
	}

	if req.ApplicationURL != "" {
		updates["application_url"] = strings.TrimSpace(req.ApplicationURL)
	}

	if req.Notes != "" {
		updates["notes"] = strings.TrimSpace(req.Notes)
	}

	if len(req.InterviewDates) > 0 {
		for _, interview := range req.InterviewDates {
			if interview.Type != "" && !slices.Contains(types.InterviewTypes, interview.Type) {
				return nil, "Invalid interview type"
			}
		}
		if raw, err := json.Marshal(req.InterviewDates); err == nil {
			updates["interview_dates"] = datatypes.JSON(raw)
		}
	}

	if req.Salary != nil && (req.Salary.Min != 0 || req.Salary.Max != 0) {
		if raw, err := json.Marshal(req.Salary); err == nil {
			updates["salary"] = datatypes.JSON(raw)
		}
	}

	return updates, ""
}

func applicationOrderClause(sortBy string) string {
	direction := "ASC"
	field := sortBy

	if strings.HasPrefix(sortBy, "-") {
		direction = "DESC"
		field = sortBy[1:]
	}

	column, exists := applicationSortColumns[field]
	if !exists {
		column = "application_date"
		direction = "DESC"
	}

	return column + " " + direction
}

func cvExistsForUser(cvID, userID uint) bool {
	var count int64
	db.DB.Model(&models.CV{}).Where("id = ? AND user_id = ?", cvID, userID).Count(&count)
	return count > 0
}

// loadCVProjections fetches a reduced projection of every referenced CV in
// one query. Dangling references simply stay absent from the map.
func loadCVProjections(applications []models.JobApplication) map[uint]gin.H {
	ids := make([]uint, 0, len(applications))
	for _, app := range applications {
		if app.CVVersionID != nil {
			ids = append(ids, *app.CVVersionID)
		}
	}

	projections := map[uint]gin.H{}

	if len(ids) == 0 {
		return projections
	}

	var cvs []models.CV

	if err := db.DB.Select("id, version_name, generated_date, latex_code").
		Where("id IN ?", ids).
		Find(&cvs).Error; err != nil {
		log.Printf("Failed to load CV projections: %v", err)
		return projections
	}

	for _, cv := range cvs {
		projections[cv.ID] = gin.H{
			"id":            cv.ID,
			"versionName":   cv.VersionName,
			"generatedDate": cv.GeneratedDate,
			"latexCode":     cv.LatexCode,
		}
	}

	return projections
}

func applicationResponse(application *models.JobApplication, cvProjections map[uint]gin.H) gin.H {
	var cvVersion interface{}
	if application.CVVersionID != nil {
		if projection, exists := cvProjections[*application.CVVersionID]; exists {
			cvVersion = projection
		}
	}

	var interviewDates []types.InterviewDate
	if len(application.InterviewDates) > 0 {
		_ = json.Unmarshal(application.InterviewDates, &interviewDates)
	}

	var salary *types.Salary
	if len(application.Salary) > 0 {
		salary = &types.Salary{}
		_ = json.Unmarshal(application.Salary, salary)
	}

	return gin.H{
		"id":              application.ID,
		"company":         application.Company,
		"position":        application.Position,
		"location":        application.Location,
		"applicationDate": application.ApplicationDate,
		"status":          application.Status,
		"cvVersion":       cvVersion,
		"jobDescription":  application.JobDescription,
		"applicationUrl":  application.ApplicationURL,
		"notes":           application.Notes,
		"interviewDates":  interviewDates,
		"salary":          salary,
		"jobType":         application.JobType,
		"createdAt":       application.CreatedAt,
		"updatedAt":       application.UpdatedAt,
	}
}

func rateString(count, total int64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(count)/float64(total)*100)
}
