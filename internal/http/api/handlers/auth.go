package handlers

import (
	"errors"
	"net/http"

	"github.com/discobots/discobots-web/internal/config"
	"github.com/discobots/discobots-web/internal/models"
	"github.com/discobots/discobots-web/internal/security"
	"github.com/discobots/discobots-web/internal/userstore"
	"github.com/gin-gonic/gin"
)

// ContextUserKey locates the authenticated user in the gin context.
const ContextUserKey = "currentUser"

// AuthHandler serves registration and login for the token API.
type AuthHandler struct {
	users  *userstore.Store
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *userstore.Store, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwtCfg: jwtCfg}
}

// registerRequest defines the request body for API registration.
type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// Register creates a user and returns a fresh token alongside it.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	user, errRegister := h.users.Register(c.Request.Context(), body.Username, body.Email, body.Password)
	if errRegister != nil {
		var dup *userstore.DuplicateFieldError
		if errors.As(errRegister, &dup) {
			c.JSON(http.StatusBadRequest, gin.H{"message": dup.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registration failed"})
		return
	}

	// Optional preference fields are coerced, never rejected.
	if body.Theme != "" || body.Language != "" {
		var theme, language *string
		if body.Theme != "" {
			theme = &body.Theme
		}
		if body.Language != "" {
			language = &body.Language
		}
		if updated, errUpdate := h.users.UpdatePreferences(c.Request.Context(), user.ID, theme, language); errUpdate == nil {
			user = updated
		}
	}

	token, errSign := security.SignUserToken(h.jwtCfg.Secret, user.ID, h.jwtCfg.Expiry)
	if errSign != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token issuance failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    formatUser(user),
	})
}

// loginRequest defines the request body for API login.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a username/password pair and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing username or password"})
		return
	}

	user, errAuth := h.users.Authenticate(c.Request.Context(), body.Username, body.Password)
	if errAuth != nil {
		if errors.Is(errAuth, userstore.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	token, errSign := security.SignUserToken(h.jwtCfg.Secret, user.ID, h.jwtCfg.Expiry)
	if errSign != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token issuance failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    formatUser(user),
	})
}

// formatUser shapes a user for API responses. The password digest never
// leaves the store.
func formatUser(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"theme":    user.Theme,
		"language": user.Language,
	}
}
