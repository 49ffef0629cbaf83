package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobpilot-dev/jobpilot/db"
	"github.com/jobpilot-dev/jobpilot/internal/auth"
	"github.com/jobpilot-dev/jobpilot/internal/models"
	"github.com/jobpilot-dev/jobpilot/internal/types"
	"github.com/jobpilot-dev/jobpilot/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

const refreshCookieName = "refreshToken"

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide username, email, and password"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	// Uniqueness is enforced by the index, not a prior lookup, so two
	// concurrent registrations cannot both pass a check and race the insert.
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": duplicateUserMessage(req.Username)})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	accessToken, refreshToken, err := issueSession(ctx, &user)

	if err != nil {
		log.Printf("Failed to issue session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	setRefreshCookie(ctx, refreshToken, int(auth.RefreshTokenTTL.Seconds()))

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data": gin.H{
			"user":        userResponse(&user),
			"accessToken": accessToken,
		},
	})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide email and password"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := issueSession(ctx, &user)

	if err != nil {
		log.Printf("Failed to issue session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	setRefreshCookie(ctx, refreshToken, int(auth.RefreshTokenTTL.Seconds()))

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"user":        userResponse(&user),
			"accessToken": accessToken,
		},
	})
}

// Refresh mints a new access token against a persisted, still-valid refresh
// token. The refresh token itself is not rotated.
func Refresh(ctx *gin.Context) {
	rawToken, err := ctx.Cookie(refreshCookieName)

	if err != nil || rawToken == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Refresh token not found"})
		return
	}

	token, err := auth.VerifyRefreshToken(rawToken)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	userID, err := auth.UserIDFromToken(token)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	var record models.RefreshToken

	err = db.DB.Where("token_hash = ? AND is_valid = ? AND expires_at > ?", auth.HashToken(rawToken), true, time.Now()).
		First(&record).Error

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email)

	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Token refreshed successfully",
		"data":    gin.H{"accessToken": accessToken},
	})
}

// Logout invalidates the persisted refresh token record. Idempotent when
// the token is unknown or already invalid.
func Logout(ctx *gin.Context) {
	rawToken, err := ctx.Cookie(refreshCookieName)

	if err == nil && rawToken != "" {
		if err := db.DB.Model(&models.RefreshToken{}).
			Where("token_hash = ?", auth.HashToken(rawToken)).
			Update("is_valid", false).Error; err != nil {
			log.Printf("Failed to invalidate refresh token: %v", err)
		}
	}

	setRefreshCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": userResponse(&user)},
	})
}

// duplicateUserMessage names the conflicting field after a unique violation.
func duplicateUserMessage(username string) string {
	var existing models.User

	if err := db.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		return "Username already exists"
	}

	return "Email already exists"
}

func issueSession(ctx *gin.Context, user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = auth.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = auth.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	record := models.RefreshToken{
		TokenHash: auth.HashToken(refreshToken),
		UserID:    user.ID,
		IsValid:   true,
		ExpiresAt: time.Now().Add(auth.RefreshTokenTTL),
	}

	if err = db.DB.Create(&record).Error; err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func setRefreshCookie(ctx *gin.Context, value string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   os.Getenv("APP_ENV") == "production",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
