package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/auth"
	"github.com/jobpilot-dev/jobpilot/internal/middleware"
	"github.com/jobpilot-dev/jobpilot/internal/models"
	"github.com/jobpilot-dev/jobpilot/internal/types"
	"github.com/jobpilot-dev/jobpilot/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func createTestProfile(t *testing.T, userID uint, sections types.ProfileSections) *models.Profile {
	t.Helper()

	profile := models.Profile{UserID: userID, LastUpdated: time.Now()}
	require.NoError(t, utils.EncodeSections(&profile, sections))
	require.NoError(t, db.DB.Create(&profile).Error)
	return &profile
}

func testContext(t *testing.T, user *models.User, method string, body interface{}, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, "/", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}

	ctx.Request = req
	ctx.Params = params

	if user != nil {
		ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}

	return ctx, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	return data
}

func idParam(id interface{}) gin.Param {
	return gin.Param{Key: "id", Value: fmt.Sprintf("%v", id)}
}

func TestTodoOwnershipIsolation(t *testing.T) {
	setupHandlerDB(t)
	owner := createTestUser(t, "owner")
	intruder := createTestUser(t, "intruder")

	ctx, w := testContext(t, owner, http.MethodPost, gin.H{"title": "Learn Go"})
	CreateTodo(ctx)
	require.Equal(t, http.StatusCreated, w.Code)

	todoID := dataField(t, w)["id"].(float64)

	ctx, w = testContext(t, intruder, http.MethodGet, nil, idParam(todoID))
	GetTodo(ctx)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ctx, w = testContext(t, owner, http.MethodGet, nil, idParam(todoID))
	GetTodo(ctx)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTodoProgressStatusConsistency(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "progress")

	ctx, w := testContext(t, user, http.MethodPost, gin.H{"title": "Ship feature"})
	CreateTodo(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	todoID := dataField(t, w)["id"].(float64)

	ctx, w = testContext(t, user, http.MethodPatch, gin.H{"progress": 100}, idParam(todoID))
	UpdateTodoProgress(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "Completed", data["status"])
	assert.NotNil(t, data["completedDate"])

	ctx, w = testContext(t, user, http.MethodPatch, gin.H{"progress": 40}, idParam(todoID))
	UpdateTodoProgress(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	assert.Equal(t, "In Progress", data["status"])
	assert.Nil(t, data["completedDate"])

	ctx, w = testContext(t, user, http.MethodPatch, gin.H{"progress": 150}, idParam(todoID))
	UpdateTodoProgress(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ctx, w = testContext(t, user, http.MethodPatch, nil, idParam(todoID))
	ctx.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader([]byte(`{}`)))
	UpdateTodoProgress(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleTodoStatus(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "toggler")

	ctx, w := testContext(t, user, http.MethodPost, gin.H{"title": "Flip me"})
	CreateTodo(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	todoID := dataField(t, w)["id"].(float64)

	ctx, w = testContext(t, user, http.MethodPatch, nil, idParam(todoID))
	ToggleTodoStatus(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "Completed", data["status"])
	assert.Equal(t, float64(100), data["progress"])

	ctx, w = testContext(t, user, http.MethodPatch, nil, idParam(todoID))
	ToggleTodoStatus(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	assert.Equal(t, "Todo", data["status"])
	assert.Equal(t, float64(0), data["progress"])
	assert.Nil(t, data["completedDate"])
}

func TestGenerateSkillGapTodosEndpoint(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "gapper")
	createTestProfile(t, user.ID, types.ProfileSections{
		Skills: types.Skills{
			Technical: []types.TechnicalSkill{{Name: "Go"}, {Name: "PostgreSQL"}},
		},
	})

	ctx, w := testContext(t, user, http.MethodPost, gin.H{
		"targetSkills": []string{"Go", "Kubernetes", "SQL"},
	})
	GenerateSkillGapTodos(ctx)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	todos := body["data"].([]interface{})
	require.Len(t, todos, 1)

	todo := todos[0].(map[string]interface{})
	assert.Equal(t, "Learn Kubernetes", todo["title"])
	assert.Equal(t, "Skill Gap", todo["category"])
	assert.Equal(t, "High", todo["priority"])
}

func TestCVUsageCountAndDanglingReference(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "cvuser")
	createTestProfile(t, user.ID, types.ProfileSections{
		PersonalInfo: types.PersonalInfo{FullName: "Ada Lovelace"},
	})

	ctx, w := testContext(t, user, http.MethodPost, gin.H{"versionName": "Backend v1"})
	CreateCV(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	cvID := uint(dataField(t, w)["id"].(float64))

	ctx, w = testContext(t, user, http.MethodPost, gin.H{
		"company":        "Initech",
		"position":       "Engineer",
		"jobDescription": "build things",
		"cvVersion":      cvID,
	})
	CreateApplication(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	appID := dataField(t, w)["id"].(float64)

	var cv models.CV
	require.NoError(t, db.DB.First(&cv, cvID).Error)
	assert.Equal(t, 1, cv.UsageCount)

	ctx, w = testContext(t, user, http.MethodDelete, nil, idParam(cvID))
	DeleteCV(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	ctx, w = testContext(t, user, http.MethodGet, nil, idParam(appID))
	GetApplication(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, dataField(t, w)["cvVersion"])
}

func TestCreateApplicationRejectsForeignCV(t *testing.T) {
	setupHandlerDB(t)
	owner := createTestUser(t, "cvowner")
	other := createTestUser(t, "other")

	cv := models.CV{UserID: owner.ID, VersionName: "Theirs", GeneratedDate: time.Now()}
	require.NoError(t, db.DB.Create(&cv).Error)

	ctx, w := testContext(t, other, http.MethodPost, gin.H{
		"company":        "Initech",
		"position":       "Engineer",
		"jobDescription": "build things",
		"cvVersion":      cv.ID,
	})
	CreateApplication(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CV version not found", decodeBody(t, w)["message"])
}

func TestSetDefaultCVSwapsPointer(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "defaulter")

	first := models.CV{UserID: user.ID, VersionName: "First", GeneratedDate: time.Now()}
	second := models.CV{UserID: user.ID, VersionName: "Second", GeneratedDate: time.Now()}
	require.NoError(t, db.DB.Create(&first).Error)
	require.NoError(t, db.DB.Create(&second).Error)

	ctx, w := testContext(t, user, http.MethodPatch, nil, idParam(first.ID))
	SetDefaultCV(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	ctx, w = testContext(t, user, http.MethodPatch, nil, idParam(second.ID))
	SetDefaultCV(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, db.DB.First(&reloaded, user.ID).Error)
	require.NotNil(t, reloaded.DefaultCVID)
	assert.Equal(t, second.ID, *reloaded.DefaultCVID)

	ctx, w = testContext(t, user, http.MethodDelete, nil, idParam(second.ID))
	DeleteCV(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.DB.First(&reloaded, user.ID).Error)
	assert.Nil(t, reloaded.DefaultCVID)
}

func TestGetApplicationStats(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "stats")

	statuses := []string{"Applied", "Applied", "Interview", "Offer"}
	for i, status := range statuses {
		app := models.JobApplication{
			UserID:          user.ID,
			Company:         "Company",
			Position:        "Position",
			Status:          status,
			JobDescription:  "desc",
			ApplicationDate: time.Now().Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.DB.Create(&app).Error)
	}

	ctx, w := testContext(t, user, http.MethodGet, nil)
	GetApplicationStats(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataField(t, w)
	assert.Equal(t, float64(4), data["total"])
	assert.Equal(t, "25.0", data["successRate"])
	assert.Equal(t, "25.0", data["interviewRate"])

	byStatus := data["byStatus"].(map[string]interface{})
	assert.Equal(t, float64(2), byStatus["Applied"])

	recent := data["recentActivity"].([]interface{})
	assert.Len(t, recent, 4)
}

func TestGetApplicationStatsEmpty(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "empty")

	ctx, w := testContext(t, user, http.MethodGet, nil)
	GetApplicationStats(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataField(t, w)
	assert.Equal(t, float64(0), data["total"])
	assert.Equal(t, "0", data["successRate"])
	assert.Equal(t, "0", data["interviewRate"])
}

func TestProfileLifecycle(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "profiler")

	// First read lazily creates an empty profile.
	ctx, w := testContext(t, user, http.MethodGet, nil)
	GetProfile(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	profile := dataField(t, w)["profile"].(map[string]interface{})
	assert.Equal(t, float64(0), profile["completeness"])

	ctx, w = testContext(t, user, http.MethodPut, types.ProfileSections{
		PersonalInfo:   types.PersonalInfo{FullName: "Ada Lovelace", Phone: "1", Summary: "Engineer"},
		Education:      []types.Education{{Institution: "Somewhere", Degree: "BSc"}},
		WorkExperience: []types.WorkExperience{{Company: "Initech", Position: "Dev"}},
	})
	UpdateProfile(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	profile = dataField(t, w)["profile"].(map[string]interface{})
	assert.Equal(t, float64(65), profile["completeness"])

	ctx, w = testContext(t, user, http.MethodPatch, gin.H{"city": "London"},
		gin.Param{Key: "section", Value: "personalInfo"})
	UpdateSection(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	profile = dataField(t, w)["profile"].(map[string]interface{})
	personalInfo := profile["personalInfo"].(map[string]interface{})
	assert.Equal(t, "London", personalInfo["city"])
	assert.Equal(t, "Ada Lovelace", personalInfo["fullName"])

	ctx, w = testContext(t, user, http.MethodPatch, gin.H{"anything": true},
		gin.Param{Key: "section", Value: "notASection"})
	UpdateSection(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ctx, w = testContext(t, user, http.MethodGet, nil)
	ValidateProfile(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, false, data["isComplete"])
	assert.NotEmpty(t, data["missingFields"])
}

func TestAuthRegisterLoginRefreshLogout(t *testing.T) {
	setupHandlerDB(t)
	t.Setenv("JWT_ACCESS_SECRET", "access-secret-for-tests")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-tests")
	require.NoError(t, auth.InitJWTSecrets())

	ctx, w := testContext(t, nil, http.MethodPost, gin.H{
		"username": "ada",
		"email":    "Ada@Example.com",
		"password": "supersecret",
	})
	Register(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, dataField(t, w)["accessToken"])

	var refreshCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "refreshToken" {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)

	// Same email registers are rejected; email comparison is case-insensitive.
	ctx, w = testContext(t, nil, http.MethodPost, gin.H{
		"username": "ada2",
		"email":    "ada@example.com",
		"password": "supersecret",
	})
	Register(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, w)["message"])

	ctx, w = testContext(t, nil, http.MethodPost, gin.H{
		"email":    "ada@example.com",
		"password": "wrongpassword",
	})
	Login(ctx)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["message"])

	ctx, w = testContext(t, nil, http.MethodPost, gin.H{
		"email":    "ada@example.com",
		"password": "supersecret",
	})
	Login(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	ctx, w = testContext(t, nil, http.MethodPost, nil)
	ctx.Request.AddCookie(refreshCookie)
	Refresh(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, dataField(t, w)["accessToken"])

	ctx, w = testContext(t, nil, http.MethodPost, nil)
	ctx.Request.AddCookie(refreshCookie)
	Logout(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	// The invalidated token can no longer mint access tokens.
	ctx, w = testContext(t, nil, http.MethodPost, nil)
	ctx.Request.AddCookie(refreshCookie)
	Refresh(ctx)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logout again is a no-op, not an error.
	ctx, w = testContext(t, nil, http.MethodPost, nil)
	ctx.Request.AddCookie(refreshCookie)
	Logout(ctx)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaveGeneratedCVAttachesToApplication(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "saver")
	createTestProfile(t, user.ID, types.ProfileSections{})

	app := models.JobApplication{
		UserID:          user.ID,
		Company:         "Initech",
		Position:        "Engineer",
		Status:          "Applied",
		JobDescription:  "desc",
		ApplicationDate: time.Now(),
	}
	require.NoError(t, db.DB.Create(&app).Error)

	ctx, w := testContext(t, user, http.MethodPost, gin.H{
		"versionName":      "Generated v1",
		"latexCode":        "\\documentclass{article}",
		"jobApplicationId": app.ID,
	})
	SaveGeneratedCV(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	cvID := uint(dataField(t, w)["id"].(float64))

	var reloaded models.JobApplication
	require.NoError(t, db.DB.First(&reloaded, app.ID).Error)
	require.NotNil(t, reloaded.CVVersionID)
	assert.Equal(t, cvID, *reloaded.CVVersionID)

	var cv models.CV
	require.NoError(t, db.DB.First(&cv, cvID).Error)
	assert.Equal(t, 1, cv.UsageCount)
}

func TestSaveGeneratedCVUnknownApplication(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "saver2")
	createTestProfile(t, user.ID, types.ProfileSections{})

	missing := uint(999)
	ctx, w := testContext(t, user, http.MethodPost, gin.H{
		"versionName":      "Orphan",
		"jobApplicationId": missing,
	})
	SaveGeneratedCV(ctx)

	// The version is persisted even though the application lookup failed.
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Application not found; CV version was saved", body["message"])
	require.NotNil(t, body["data"])

	var count int64
	db.DB.Model(&models.CV{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCVSnapshotIsImmutable(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "snapshotter")
	profile := createTestProfile(t, user.ID, types.ProfileSections{
		PersonalInfo: types.PersonalInfo{FullName: "Before Edit"},
	})

	ctx, w := testContext(t, user, http.MethodPost, gin.H{"versionName": "Frozen"})
	CreateCV(ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	cvID := uint(dataField(t, w)["id"].(float64))

	sections := utils.DecodeSections(profile)
	sections.PersonalInfo.FullName = "After Edit"
	require.NoError(t, utils.EncodeSections(profile, sections))
	require.NoError(t, db.DB.Save(profile).Error)

	var cv models.CV
	require.NoError(t, db.DB.First(&cv, cvID).Error)

	var snapshot types.ProfileSections
	require.NoError(t, json.Unmarshal(cv.ProfileSnapshot, &snapshot))
	assert.Equal(t, "Before Edit", snapshot.PersonalInfo.FullName)
	// The account email is merged into the snapshot at creation time.
	assert.Equal(t, user.Email, snapshot.PersonalInfo.Email)
}

func TestUpdateApplicationPreservesOmittedFields(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "updater")

	cv := models.CV{UserID: user.ID, VersionName: "Attached", GeneratedDate: time.Now()}
	require.NoError(t, db.DB.Create(&cv).Error)

	app := models.JobApplication{
		UserID:          user.ID,
		Company:         "Initech",
		Position:        "Engineer",
		Location:        "Remote",
		Status:          "Interview",
		JobDescription:  "desc",
		ApplicationURL:  "https://example.com/job",
		Notes:           "asked about oncall",
		ApplicationDate: time.Now().Add(-48 * time.Hour),
		CVVersionID:     &cv.ID,
	}
	require.NoError(t, db.DB.Create(&app).Error)

	ctx, w := testContext(t, user, http.MethodPut, gin.H{
		"company":        "Initech Global",
		"position":       "Senior Engineer",
		"jobDescription": "new desc",
	}, idParam(app.ID))
	UpdateApplication(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.JobApplication
	require.NoError(t, db.DB.First(&reloaded, app.ID).Error)

	assert.Equal(t, "Initech Global", reloaded.Company)
	assert.Equal(t, "Senior Engineer", reloaded.Position)
	assert.Equal(t, "new desc", reloaded.JobDescription)

	// Every field the payload omitted survives the update.
	require.NotNil(t, reloaded.CVVersionID)
	assert.Equal(t, cv.ID, *reloaded.CVVersionID)
	assert.Equal(t, "asked about oncall", reloaded.Notes)
	assert.Equal(t, "Remote", reloaded.Location)
	assert.Equal(t, "Interview", reloaded.Status)
	assert.Equal(t, "https://example.com/job", reloaded.ApplicationURL)
	assert.WithinDuration(t, app.ApplicationDate, reloaded.ApplicationDate, time.Second)

	// Re-sending the same CV reference is not a new attachment.
	var reloadedCV models.CV
	require.NoError(t, db.DB.First(&reloadedCV, cv.ID).Error)
	assert.Equal(t, 0, reloadedCV.UsageCount)
}

func TestUpdateApplicationAttachesNewCV(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "reattacher")

	cv := models.CV{UserID: user.ID, VersionName: "Fresh", GeneratedDate: time.Now()}
	require.NoError(t, db.DB.Create(&cv).Error)

	app := models.JobApplication{
		UserID:          user.ID,
		Company:         "Initech",
		Position:        "Engineer",
		Status:          "Applied",
		JobDescription:  "desc",
		ApplicationDate: time.Now(),
	}
	require.NoError(t, db.DB.Create(&app).Error)

	ctx, w := testContext(t, user, http.MethodPut, gin.H{
		"company":        "Initech",
		"position":       "Engineer",
		"jobDescription": "desc",
		"cvVersion":      cv.ID,
	}, idParam(app.ID))
	UpdateApplication(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.JobApplication
	require.NoError(t, db.DB.First(&reloaded, app.ID).Error)
	require.NotNil(t, reloaded.CVVersionID)
	assert.Equal(t, cv.ID, *reloaded.CVVersionID)

	var reloadedCV models.CV
	require.NoError(t, db.DB.First(&reloadedCV, cv.ID).Error)
	assert.Equal(t, 1, reloadedCV.UsageCount)
}

func TestRefreshStoredRecordExpiryBoundary(t *testing.T) {
	setupHandlerDB(t)
	t.Setenv("JWT_ACCESS_SECRET", "access-secret-for-tests")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-tests")
	require.NoError(t, auth.InitJWTSecrets())

	user := createTestUser(t, "refresher")

	// The JWT itself is valid for days; only the stored record has lapsed.
	raw, err := auth.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	record := models.RefreshToken{
		TokenHash: auth.HashToken(raw),
		UserID:    user.ID,
		IsValid:   true,
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, db.DB.Create(&record).Error)

	cookie := &http.Cookie{Name: "refreshToken", Value: raw}

	ctx, w := testContext(t, nil, http.MethodPost, nil)
	ctx.Request.AddCookie(cookie)
	Refresh(ctx)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, db.DB.Model(&models.RefreshToken{}).
		Where("token_hash = ?", record.TokenHash).
		Update("expires_at", time.Now().Add(time.Hour)).Error)

	ctx, w = testContext(t, nil, http.MethodPost, nil)
	ctx.Request.AddCookie(cookie)
	Refresh(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, dataField(t, w)["accessToken"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setupHandlerDB(t)
	t.Setenv("JWT_ACCESS_SECRET", "access-secret-for-tests")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-tests")
	require.NoError(t, auth.InitJWTSecrets())

	ctx, w := testContext(t, nil, http.MethodPost, gin.H{
		"username": "grace",
		"email":    "grace@example.com",
		"password": "supersecret",
	})
	Register(ctx)
	require.Equal(t, http.StatusCreated, w.Code)

	ctx, w = testContext(t, nil, http.MethodPost, gin.H{
		"username": "grace",
		"email":    "grace2@example.com",
		"password": "supersecret",
	})
	Register(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", decodeBody(t, w)["message"])
}

func TestGenerateInterviewQuizCap(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "quizzer")
	createTestProfile(t, user.ID, types.ProfileSections{})

	snapshot, err := json.Marshal(types.ProfileSections{
		Skills: types.Skills{
			Technical: []types.TechnicalSkill{
				{Name: "Go"}, {Name: "Python"}, {Name: "SQL"},
				{Name: "Docker"}, {Name: "Kubernetes"}, {Name: "Terraform"},
			},
		},
		WorkExperience: []types.WorkExperience{{Company: "Hooli", Position: "Dev"}},
		Projects:       []types.Project{{Name: "Compression Engine"}},
	})
	require.NoError(t, err)

	cv := models.CV{
		UserID:          user.ID,
		VersionName:     "Quiz CV",
		GeneratedDate:   time.Now(),
		ProfileSnapshot: snapshot,
	}
	require.NoError(t, db.DB.Create(&cv).Error)

	app := models.JobApplication{
		UserID:   user.ID,
		Company:  "Initech",
		Position: "Engineer",
		Status:   "Applied",
		JobDescription: "5+ years of Go experience, production Kubernetes operations, " +
			"designing relational schemas, mentoring junior engineers, " +
			"writing clear design documents, on-call incident response",
		ApplicationDate: time.Now(),
		CVVersionID:     &cv.ID,
	}
	require.NoError(t, db.DB.Create(&app).Error)

	ctx, w := testContext(t, user, http.MethodPost, nil, idParam(app.ID))
	GenerateInterviewQuiz(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	data := dataField(t, w)
	total := data["totalQuestions"].(float64)
	assert.LessOrEqual(t, total, float64(15))
	assert.Len(t, data["questions"].([]interface{}), int(total))

	breakdown := data["breakdown"].(map[string]interface{})
	sum := breakdown["cvBased"].(float64) + breakdown["requirementBased"].(float64) + breakdown["general"].(float64)
	assert.Equal(t, total, sum)
}

func TestListApplicationsFilterAndSearch(t *testing.T) {
	setupHandlerDB(t)
	user := createTestUser(t, "searcher")

	apps := []models.JobApplication{
		{UserID: user.ID, Company: "Initech", Position: "Backend Engineer", Status: "Applied", JobDescription: "d", ApplicationDate: time.Now()},
		{UserID: user.ID, Company: "Hooli", Position: "Frontend Engineer", Status: "Interview", JobDescription: "d", ApplicationDate: time.Now()},
		{UserID: user.ID, Company: "Pied Piper", Position: "SRE", Status: "Applied", JobDescription: "d", ApplicationDate: time.Now()},
	}
	for i := range apps {
		require.NoError(t, db.DB.Create(&apps[i]).Error)
	}

	ctx, w := testContext(t, user, http.MethodGet, nil)
	ctx.Request.URL.RawQuery = "status=Applied"
	ListApplications(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	ctx, w = testContext(t, user, http.MethodGet, nil)
	ctx.Request.URL.RawQuery = "search=engineer"
	ListApplications(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	ctx, w = testContext(t, user, http.MethodGet, nil)
	ctx.Request.URL.RawQuery = "status=all"
	ListApplications(ctx)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeBody(t, w)["count"])
}
