// Package web registers the server-rendered cookie surface. Identity is
// resolved once per request by middleware and carried through the gin
// context; anonymous visitors keep their preferences in plain cookies.
package web

import (
	"net/http"

	"github.com/discobots/discobots-web/internal/models"
	"github.com/discobots/discobots-web/internal/payment"
	"github.com/discobots/discobots-web/internal/prefs"
	"github.com/discobots/discobots-web/internal/session"
	"github.com/discobots/discobots-web/internal/userstore"
	"github.com/gin-gonic/gin"
)

// Context keys for the middleware-resolved request identity.
const (
	contextUserKey  = "webCurrentUser"
	contextPrefsKey = "webPrefs"
)

// Cookie names carrying anonymous preferences.
const (
	themeCookie    = "theme"
	languageCookie = "language"
)

// Handler serves the session-flow endpoints.
type Handler struct {
	users     *userstore.Store
	sessions  *session.Manager
	initiator *payment.Initiator
}

// RegisterWebRoutes registers the cookie-flow routes and middleware.
func RegisterWebRoutes(r *gin.Engine, users *userstore.Store, sessions *session.Manager, initiator *payment.Initiator) {
	if r == nil || users == nil || sessions == nil {
		return
	}
	r.SetHTMLTemplate(pageTemplates)

	h := &Handler{users: users, sessions: sessions, initiator: initiator}

	site := r.Group("")
	site.Use(h.identityMiddleware())

	site.GET("/", h.Index)
	site.GET("/discord", h.Discord)
	site.GET("/terms", h.Terms)

	site.GET("/login", h.LoginForm)
	site.POST("/login", h.Login)
	site.GET("/logout", h.Logout)
	site.GET("/register", h.RegisterForm)
	site.POST("/register", h.Register)

	site.GET("/set_language/:language", h.SetLanguage)
	site.GET("/set_theme/:theme", h.SetTheme)

	site.GET("/create-checkout-session", h.CreateCheckoutSession)
	site.POST("/create-checkout-session", h.CreateCheckoutSession)
	site.GET("/checkout/success", h.CheckoutSuccess)
	site.GET("/checkout/cancel", h.CheckoutCancel)

	authed := site.Group("")
	authed.Use(h.loginRequiredMiddleware())
	authed.GET("/settings", h.SettingsForm)
	authed.POST("/settings", h.Settings)
}

// identityMiddleware resolves the session cookie to a user (when one is
// set and live) and computes the request's effective preferences. The
// user object is loaded fresh per request, never cached across requests.
func (h *Handler) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user *models.User
		if token, errCookie := c.Cookie(session.CookieName); errCookie == nil {
			if userID, errResolve := h.sessions.Resolve(c.Request.Context(), token); errResolve == nil {
				if found, errFind := h.users.ByID(c.Request.Context(), userID); errFind == nil {
					user = found
				}
			}
		}

		var p prefs.Preferences
		if user != nil {
			p = prefs.Normalize(prefs.Preferences{Theme: user.Theme, Language: user.Language})
		} else {
			theme, _ := c.Cookie(themeCookie)
			language, _ := c.Cookie(languageCookie)
			p = prefs.Normalize(prefs.Preferences{Theme: theme, Language: language})
		}

		if user != nil {
			c.Set(contextUserKey, user)
		}
		c.Set(contextPrefsKey, p)
		c.Next()
	}
}

// loginRequiredMiddleware redirects anonymous visitors to the login page.
func (h *Handler) loginRequiredMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionUser(c); !ok {
			c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

// sessionUser pulls the middleware-resolved user from the context.
func sessionUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// requestPrefs pulls the middleware-resolved preferences from the context.
func requestPrefs(c *gin.Context) prefs.Preferences {
	if value, ok := c.Get(contextPrefsKey); ok {
		if p, ok := value.(prefs.Preferences); ok {
			return p
		}
	}
	return prefs.Defaults()
}

// setPrefCookies mirrors preferences into the anonymous cookies so they
// survive logout.
func setPrefCookies(c *gin.Context, p prefs.Preferences) {
	c.SetCookie(themeCookie, p.Theme, 0, "/", "", false, false)
	c.SetCookie(languageCookie, p.Language, 0, "/", "", false, false)
}
