// Package api registers the stateless JSON surface. Identity travels in
// bearer tokens; no server-side session state is consulted.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/discobots/discobots-web/internal/config"
	"github.com/discobots/discobots-web/internal/http/api/handlers"
	"github.com/discobots/discobots-web/internal/payment"
	"github.com/discobots/discobots-web/internal/security"
	"github.com/discobots/discobots-web/internal/userstore"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAPIRoutes registers the token API routes, middleware, and handlers.
func RegisterAPIRoutes(r *gin.Engine, db *gorm.DB, users *userstore.Store, jwtCfg config.JWTConfig, initiator *payment.Initiator) {
	if r == nil || users == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	apiGroup := r.Group("/api")

	authHandler := handlers.NewAuthHandler(users, jwtCfg)
	apiGroup.POST("/register", authHandler.Register)
	apiGroup.POST("/login", authHandler.Login)

	authed := apiGroup.Group("")
	authed.Use(bearerAuthMiddleware(users, jwtCfg))

	userHandler := handlers.NewUserHandler(users)
	authed.GET("/user", userHandler.Me)
	authed.PUT("/settings", userHandler.UpdateSettings)

	checkoutHandler := handlers.NewCheckoutHandler(initiator)
	authed.POST("/create-checkout-session", checkoutHandler.Create)
}

// bearerAuthMiddleware verifies bearer tokens and loads the user into the
// request context. The 401 message distinguishes malformed tokens,
// expired tokens, and unknown subjects.
func bearerAuthMiddleware(users *userstore.Store, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing"})
			return
		}

		claims, errParse := security.ParseUserToken(jwtCfg.Secret, token)
		if errParse != nil {
			if errors.Is(errParse, security.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		userID, errID := claims.UserID()
		if errID != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		user, errFind := users.ByID(c.Request.Context(), userID)
		if errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(handlers.ContextUserKey, user)
		c.Next()
	}
}
