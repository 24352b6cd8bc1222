package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/discobots/discobots-web/internal/payment"
	"github.com/discobots/discobots-web/internal/prefs"
	"github.com/discobots/discobots-web/internal/session"
	"github.com/discobots/discobots-web/internal/userstore"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// pageData is the template payload shared by all pages.
type pageData struct {
	Title    string
	Theme    string
	Language string
	User     any
	Error    string
	Next     string
}

// page assembles the template payload for the current request.
func (h *Handler) page(c *gin.Context, title string) pageData {
	p := requestPrefs(c)
	data := pageData{Title: title, Theme: p.Theme, Language: p.Language}
	if user, ok := sessionUser(c); ok {
		data.User = user
	}
	return data
}

// Index renders the home page.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", h.page(c, "Home"))
}

// Discord renders the bot invite page.
func (h *Handler) Discord(c *gin.Context) {
	c.HTML(http.StatusOK, "discord", h.page(c, "Discord"))
}

// Terms renders the terms of service page.
func (h *Handler) Terms(c *gin.Context) {
	c.HTML(http.StatusOK, "terms", h.page(c, "Terms"))
}

// LoginForm renders the login form. Authenticated visitors are sent home.
func (h *Handler) LoginForm(c *gin.Context) {
	if _, ok := sessionUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	data := h.page(c, "Login")
	data.Next = safeNext(c.Query("next"))
	c.HTML(http.StatusOK, "login", data)
}

// loginForm defines the login form fields.
type loginForm struct {
	Username   string `form:"username" binding:"required"`
	Password   string `form:"password" binding:"required"`
	RememberMe string `form:"remember_me"`
}

// Login authenticates the form credentials and opens a session.
func (h *Handler) Login(c *gin.Context) {
	if _, ok := sessionUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form loginForm
	if errBind := c.ShouldBind(&form); errBind != nil {
		data := h.page(c, "Login")
		data.Error = "Invalid username or password"
		c.HTML(http.StatusBadRequest, "login", data)
		return
	}

	user, errAuth := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errAuth != nil {
		data := h.page(c, "Login")
		data.Error = "Invalid username or password"
		c.HTML(http.StatusUnauthorized, "login", data)
		return
	}

	remember := form.RememberMe != ""
	token, errIssue := h.sessions.Issue(c.Request.Context(), user.ID, remember)
	if errIssue != nil {
		log.WithError(errIssue).Error("session issuance failed")
		data := h.page(c, "Login")
		data.Error = "Login failed, please try again"
		c.HTML(http.StatusInternalServerError, "login", data)
		return
	}
	c.SetCookie(session.CookieName, token, h.sessions.CookieMaxAge(remember), "/", "", false, true)

	c.Redirect(http.StatusFound, nextOrHome(c.Query("next")))
}

// Logout clears the session unconditionally and sends the visitor home.
func (h *Handler) Logout(c *gin.Context) {
	if token, errCookie := c.Cookie(session.CookieName); errCookie == nil {
		if errClear := h.sessions.Clear(c.Request.Context(), token); errClear != nil {
			log.WithError(errClear).Warn("session clear failed")
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm renders the registration form.
func (h *Handler) RegisterForm(c *gin.Context) {
	if _, ok := sessionUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register", h.page(c, "Register"))
}

// registerForm defines the registration form fields.
type registerForm struct {
	Username  string `form:"username" binding:"required,min=3,max=64"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password"`
}

// Register creates the account and redirects to the login form.
func (h *Handler) Register(c *gin.Context) {
	if _, ok := sessionUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form registerForm
	if errBind := c.ShouldBind(&form); errBind != nil {
		data := h.page(c, "Register")
		data.Error = "Please check the form and try again"
		c.HTML(http.StatusBadRequest, "register", data)
		return
	}

	if _, errRegister := h.users.Register(c.Request.Context(), form.Username, form.Email, form.Password); errRegister != nil {
		data := h.page(c, "Register")
		var dup *userstore.DuplicateFieldError
		if errors.As(errRegister, &dup) {
			data.Error = "Please use a different " + dup.Field
			c.HTML(http.StatusBadRequest, "register", data)
			return
		}
		data.Error = "Registration failed, please try again"
		c.HTML(http.StatusInternalServerError, "register", data)
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// SettingsForm renders the settings form with the stored preferences.
func (h *Handler) SettingsForm(c *gin.Context) {
	c.HTML(http.StatusOK, "settings", h.page(c, "Settings"))
}

// settingsForm defines the settings form fields.
type settingsForm struct {
	Theme    string `form:"theme"`
	Language string `form:"language"`
}

// Settings persists the submitted preferences on the user row. Values
// outside the enums are coerced to defaults.
func (h *Handler) Settings(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var form settingsForm
	if errBind := c.ShouldBind(&form); errBind != nil {
		data := h.page(c, "Settings")
		data.Error = "Please check the form and try again"
		c.HTML(http.StatusBadRequest, "settings", data)
		return
	}

	updated, errUpdate := h.users.UpdatePreferences(c.Request.Context(), user.ID, &form.Theme, &form.Language)
	if errUpdate != nil {
		data := h.page(c, "Settings")
		data.Error = "Saving settings failed, please try again"
		c.HTML(http.StatusInternalServerError, "settings", data)
		return
	}

	setPrefCookies(c, prefs.Preferences{Theme: updated.Theme, Language: updated.Language})
	c.Redirect(http.StatusFound, "/settings")
}

// SetLanguage coerces and applies a language choice, then returns to the
// referring page.
func (h *Handler) SetLanguage(c *gin.Context) {
	language := prefs.NormalizeLanguage(c.Param("language"))
	if user, ok := sessionUser(c); ok {
		if _, errUpdate := h.users.UpdatePreferences(c.Request.Context(), user.ID, nil, &language); errUpdate != nil {
			log.WithError(errUpdate).Warn("persist language failed")
		}
	}
	c.SetCookie(languageCookie, language, 0, "/", "", false, false)
	c.Redirect(http.StatusFound, refererOrHome(c))
}

// SetTheme coerces and applies a theme choice, then returns to the
// referring page.
func (h *Handler) SetTheme(c *gin.Context) {
	theme := prefs.NormalizeTheme(c.Param("theme"))
	if user, ok := sessionUser(c); ok {
		if _, errUpdate := h.users.UpdatePreferences(c.Request.Context(), user.ID, &theme, nil); errUpdate != nil {
			log.WithError(errUpdate).Warn("persist theme failed")
		}
	}
	c.SetCookie(themeCookie, theme, 0, "/", "", false, false)
	c.Redirect(http.StatusFound, refererOrHome(c))
}

// CreateCheckoutSession starts a hosted checkout and redirects to the
// processor with 303 semantics (the client re-requests via GET).
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	voucher := strings.TrimSpace(c.Query("voucher"))
	if voucher == "" {
		voucher = strings.TrimSpace(c.PostForm("voucher"))
	}

	var userID uint64
	if user, ok := sessionUser(c); ok {
		userID = user.ID
	}

	base := requestBaseURL(c)
	url, errStart := h.initiator.Start(c.Request.Context(), payment.Request{
		UserID:     userID,
		Voucher:    voucher,
		SuccessURL: base + "/checkout/success",
		CancelURL:  base + "/checkout/cancel",
	})
	if errStart != nil {
		data := h.page(c, "Checkout")
		var checkoutErr *payment.CheckoutError
		if errors.As(errStart, &checkoutErr) {
			data.Error = checkoutErr.Message
		} else {
			data.Error = "Checkout failed, please try again later"
		}
		c.HTML(http.StatusBadGateway, "checkout_error", data)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}

// CheckoutSuccess renders the payment confirmation page.
func (h *Handler) CheckoutSuccess(c *gin.Context) {
	c.HTML(http.StatusOK, "checkout_success", h.page(c, "Thank You"))
}

// CheckoutCancel renders the payment cancellation page.
func (h *Handler) CheckoutCancel(c *gin.Context) {
	c.HTML(http.StatusOK, "checkout_cancel", h.page(c, "Checkout Cancelled"))
}

// safeNext keeps redirect targets on this site. Anything but a local
// path collapses to empty.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return ""
}

// nextOrHome resolves the post-login redirect target.
func nextOrHome(next string) string {
	if safe := safeNext(next); safe != "" {
		return safe
	}
	return "/"
}

// refererOrHome returns the referring page, falling back to home.
func refererOrHome(c *gin.Context) string {
	if referer := c.Request.Referer(); safeNextURL(referer, c.Request.Host) {
		return referer
	}
	return "/"
}

// safeNextURL reports whether a referer points at this host.
func safeNextURL(raw, host string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}
	return strings.Contains(raw, "://"+host+"/") || strings.HasSuffix(raw, "://"+host)
}

// requestBaseURL reconstructs the scheme and host of the inbound request.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
