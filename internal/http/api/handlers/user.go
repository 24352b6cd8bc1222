package handlers

import (
	"net/http"

	"github.com/discobots/discobots-web/internal/models"
	"github.com/discobots/discobots-web/internal/userstore"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated user's profile and settings.
type UserHandler struct {
	users *userstore.Store
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *userstore.Store) *UserHandler {
	return &UserHandler{users: users}
}

// currentUser pulls the middleware-resolved user from the context.
func currentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// Me returns the current user's information.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": formatUser(user)})
}

// updateSettingsRequest defines the request body for settings updates.
// Absent fields leave the stored value untouched.
type updateSettingsRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
}

// UpdateSettings writes theme/language preferences on the user row.
// Out-of-enum values are coerced to defaults rather than rejected.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	var body updateSettingsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	updated, errUpdate := h.users.UpdatePreferences(c.Request.Context(), user.ID, body.Theme, body.Language)
	if errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "update settings failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings updated successfully",
		"user":    formatUser(updated),
	})
}
