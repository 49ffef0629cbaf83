package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
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

type TodoRequest struct {
	Title                string               `json:"title" binding:"required"`
	Description          string               `json:"description"`
	Category             string               `json:"category"`
	Priority             string               `json:"priority"`
	Status               string               `json:"status"`
	RelatedSkill         string               `json:"relatedSkill"`
	RelatedApplicationID *uint                `json:"relatedApplication"`
	DueDate              *time.Time           `json:"dueDate"`
	Progress             *int                 `json:"progress"`
	Resources            []types.TodoResource `json:"resources"`
}

type SkillGapRequest struct {
	TargetSkills  []string `json:"targetSkills" binding:"required"`
	ApplicationID *uint    `json:"applicationId"`
}

var todoSortColumns = map[string]string{
	"createdAt": "created_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"status":    "status",
	"progress":  "progress",
}

func ListTodos(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	query := db.DB.Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	if category := ctx.Query("category"); category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	query = query.Order(todoOrderClause(ctx.DefaultQuery("sortBy", "-createdAt")))

	var todos []models.TodoItem

	if err := query.Find(&todos).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching todos"})
		return
	}

	applications := loadApplicationProjections(todos)

	response := make([]gin.H, 0, len(todos))
	for i := range todos {
		response = append(response, todoResponse(&todos[i], applications))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(response),
		"data":    response,
	})
}

func GetTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var todo models.TodoItem

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Todo not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching todo"})
		}
		return
	}

	applications := loadApplicationProjections([]models.TodoItem{todo})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    todoResponse(&todo, applications),
	})
}

func CreateTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req TodoRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		return
	}

	todo, badRequest := todoFromRequest(&req, userID)

	if badRequest != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": badRequest})
		return
	}

	if err := db.DB.Create(todo).Error; err != nil {
		log.Printf("Failed to create todo: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating todo"})
		return
	}

	applications := loadApplicationProjections([]models.TodoItem{*todo})

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Todo created successfully",
		"data":    todoResponse(todo, applications),
	})
}

func UpdateTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var existing models.TodoItem

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Todo not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating todo"})
		}
		return
	}

	var req TodoRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		return
	}

	updated, badRequest := todoFromRequest(&req, userID)

	if badRequest != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": badRequest})
		return
	}

	updated.BaseModel = existing.BaseModel
	updated.CompletedDate = existing.CompletedDate

	syncCompletion(updated, existing.Status)

	if err := db.DB.Save(updated).Error; err != nil {
		log.Printf("Failed to update todo: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating todo"})
		return
	}

	applications := loadApplicationProjections([]models.TodoItem{*updated})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Todo updated successfully",
		"data":    todoResponse(updated, applications),
	})
}

// ToggleTodoStatus flips between Todo and Completed, syncing progress and
// the completion date.
func ToggleTodoStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var todo models.TodoItem

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Todo not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error toggling todo status"})
		}
		return
	}

	previousStatus := todo.Status

	if todo.Status == "Completed" {
		todo.Status = "Todo"
		todo.Progress = 0
	} else {
		todo.Status = "Completed"
		todo.Progress = 100
	}

	syncCompletion(&todo, previousStatus)

	if err := db.DB.Save(&todo).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error toggling todo status"})
		return
	}

	applications := loadApplicationProjections([]models.TodoItem{todo})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Todo status toggled successfully",
		"data":    todoResponse(&todo, applications),
	})
}

// UpdateTodoProgress sets progress 0-100 and derives the status from it.
func UpdateTodoProgress(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req struct {
		Progress *int `json:"progress"`
	}

	if err := ctx.BindJSON(&req); err != nil || req.Progress == nil || *req.Progress < 0 || *req.Progress > 100 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Progress must be between 0 and 100"})
		return
	}

	var todo models.TodoItem

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Todo not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating todo progress"})
		}
		return
	}

	previousStatus := todo.Status
	todo.Progress = *req.Progress

	switch *req.Progress {
	case 0:
		todo.Status = "Todo"
	case 100:
		todo.Status = "Completed"
	default:
		todo.Status = "In Progress"
	}

	syncCompletion(&todo, previousStatus)

	if err := db.DB.Save(&todo).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating todo progress"})
		return
	}

	applications := loadApplicationProjections([]models.TodoItem{todo})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Todo progress updated successfully",
		"data":    todoResponse(&todo, applications),
	})
}

func DeleteTodo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var todo models.TodoItem

	if err := db.DB.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Todo not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting todo"})
		}
		return
	}

	if err := db.DB.Delete(&todo).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting todo"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo deleted successfully"})
}

func GetTodoStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var statusCounts []struct {
		Status string
		Count  int64
	}

	if err := db.DB.Model(&models.TodoItem{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching todo statistics"})
		return
	}

	var total, completed, inProgress int64

	for _, row := range statusCounts {
		total += row.Count
		switch row.Status {
		case "Completed":
			completed = row.Count
		case "In Progress":
			inProgress = row.Count
		}
	}

	var overdue int64

	db.DB.Model(&models.TodoItem{}).
		Where("user_id = ? AND status <> ? AND due_date < ?", userID, "Completed", time.Now()).
		Count(&overdue)

	var categoryCounts []struct {
		Category string
		Count    int64
	}

	db.DB.Model(&models.TodoItem{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&categoryCounts)

	byCategory := gin.H{}
	for _, row := range categoryCounts {
		byCategory[row.Category] = row.Count
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":          total,
			"completed":      completed,
			"inProgress":     inProgress,
			"pending":        total - completed - inProgress,
			"overdue":        overdue,
			"completionRate": rateString(completed, total),
			"byCategory":     byCategory,
		},
	})
}

// GenerateSkillGapTodos persists one High-priority skill-gap todo per target
// skill missing from the caller's profile.
func GenerateSkillGapTodos(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req SkillGapRequest

	if err := ctx.BindJSON(&req); err != nil || len(req.TargetSkills) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Target skills are required"})
		return
	}

	if req.ApplicationID != nil {
		var count int64
		db.DB.Model(&models.JobApplication{}).
			Where("id = ? AND user_id = ?", *req.ApplicationID, userID).
			Count(&count)
		if count == 0 {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
			return
		}
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Profile not found"})
		return
	}

	sections := utils.DecodeSections(&profile)

	currentSkills := make([]string, 0, len(sections.Skills.Technical)+len(sections.Skills.Soft))
	for _, skill := range sections.Skills.Technical {
		currentSkills = append(currentSkills, skill.Name)
	}
	for _, skill := range sections.Skills.Soft {
		currentSkills = append(currentSkills, skill.Name)
	}

	todos := generateSkillGaps(userID, req.TargetSkills, currentSkills)

	for i := range todos {
		todos[i].RelatedApplicationID = req.ApplicationID
	}

	if len(todos) > 0 {
		if err := db.DB.Create(&todos).Error; err != nil {
			log.Printf("Failed to create skill gap todos: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error generating skill gap todos"})
			return
		}
	}

	applications := loadApplicationProjections(todos)

	response := make([]gin.H, 0, len(todos))
	for i := range todos {
		response = append(response, todoResponse(&todos[i], applications))
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Generated %d skill gap todos", len(todos)),
		"data":    response,
	})
}

// generateSkillGaps computes the set difference between target and current
// skill names using case-insensitive substring matching.
func generateSkillGaps(userID uint, targetSkills, currentSkills []string) []models.TodoItem {
	var todos []models.TodoItem

	for _, target := range targetSkills {
		covered := false
		for _, current := range currentSkills {
			if strings.Contains(strings.ToLower(current), strings.ToLower(target)) {
				covered = true
				break
			}
		}

		if covered {
			continue
		}

		todos = append(todos, models.TodoItem{
			UserID:       userID,
			Title:        "Learn " + target,
			Description:  fmt.Sprintf("Develop proficiency in %s to meet job requirements", target),
			Category:     "Skill Gap",
			Priority:     "High",
			Status:       "Todo",
			RelatedSkill: target,
		})
	}

	return todos
}

func todoFromRequest(req *TodoRequest, userID uint) (*models.TodoItem, string) {
	category := req.Category
	if category == "" {
		category = "General"
	} else if !slices.Contains(types.TodoCategories, category) {
		return nil, "Invalid category"
	}

	priority := req.Priority
	if priority == "" {
		priority = "Medium"
	} else if !slices.Contains(types.TodoPriorities, priority) {
		return nil, "Invalid priority"
	}

	status := req.Status
	if status == "" {
		status = "Todo"
	} else if !slices.Contains(types.TodoStatuses, status) {
		return nil, "Invalid status"
	}

	progress := 0
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, "Progress must be between 0 and 100"
		}
		progress = *req.Progress
	}

	todo := &models.TodoItem{
		UserID:               userID,
		Title:                strings.TrimSpace(req.Title),
		Description:          strings.TrimSpace(req.Description),
		Category:             category,
		Priority:             priority,
		Status:               status,
		RelatedSkill:         strings.TrimSpace(req.RelatedSkill),
		RelatedApplicationID: req.RelatedApplicationID,
		DueDate:              req.DueDate,
		Progress:             progress,
	}

	if len(req.Resources) > 0 {
		for _, resource := range req.Resources {
			if resource.Type != "" && !slices.Contains(types.ResourceTypes, resource.Type) {
				return nil, "Invalid resource type"
			}
		}
		if raw, err := json.Marshal(req.Resources); err == nil {
			todo.Resources = datatypes.JSON(raw)
		}
	}

	return todo, ""
}

// syncCompletion keeps progress and the completion date consistent with a
// status transition: entering Completed stamps the date and maxes progress,
// leaving it clears the date.
func syncCompletion(todo *models.TodoItem, previousStatus string) {
	if todo.Status == "Completed" {
		todo.Progress = 100
		if previousStatus != "Completed" || todo.CompletedDate == nil {
			now := time.Now()
			todo.CompletedDate = &now
		}
	} else {
		todo.CompletedDate = nil
	}
}

func todoOrderClause(sortBy string) string {
	direction := "ASC"
	field := sortBy

	if strings.HasPrefix(sortBy, "-") {
		direction = "DESC"
		field = sortBy[1:]
	}

	column, exists := todoSortColumns[field]
	if !exists {
		column = "created_at"
		direction = "DESC"
	}

	return column + " " + direction
}

func loadApplicationProjections(todos []models.TodoItem) map[uint]gin.H {
	ids := make([]uint, 0, len(todos))
	for _, todo := range todos {
		if todo.RelatedApplicationID != nil {
			ids = append(ids, *todo.RelatedApplicationID)
		}
	}

	projections := map[uint]gin.H{}

	if len(ids) == 0 {
		return projections
	}

	var applications []models.JobApplication

	if err := db.DB.Select("id, company, position").Where("id IN ?", ids).Find(&applications).Error; err != nil {
		log.Printf("Failed to load application projections: %v", err)
		return projections
	}

	for _, app := range applications {
		projections[app.ID] = gin.H{
			"id":       app.ID,
			"company":  app.Company,
			"position": app.Position,
		}
	}

	return projections
}

func todoResponse(todo *models.TodoItem, applications map[uint]gin.H) gin.H {
	var related interface{}
	if todo.RelatedApplicationID != nil {
		if projection, exists := applications[*todo.RelatedApplicationID]; exists {
			related = projection
		}
	}

	var resources []types.TodoResource
	if len(todo.Resources) > 0 {
		_ = json.Unmarshal(todo.Resources, &resources)
	}

	isOverdue := todo.DueDate != nil && todo.Status != "Completed" && time.Now().After(*todo.DueDate)

	return gin.H{
		"id":                 todo.ID,
		"title":              todo.Title,
		"description":        todo.Description,
		"category":           todo.Category,
		"priority":           todo.Priority,
		"status":             todo.Status,
		"relatedSkill":       todo.RelatedSkill,
		"relatedApplication": related,
		"dueDate":            todo.DueDate,
		"completedDate":      todo.CompletedDate,
		"progress":           todo.Progress,
		"resources":          resources,
		"isOverdue":          isOverdue,
		"createdAt":          todo.CreatedAt,
		"updatedAt":          todo.UpdatedAt,
	}
}
