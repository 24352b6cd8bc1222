package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/discobots/discobots-web/internal/payment"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler starts hosted checkout sessions for the token API.
type CheckoutHandler struct {
	initiator *payment.Initiator
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(initiator *payment.Initiator) *CheckoutHandler {
	return &CheckoutHandler{initiator: initiator}
}

// createCheckoutRequest defines the request body for checkout creation.
type createCheckoutRequest struct {
	Voucher    string `json:"voucher"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// Create builds a checkout session and returns the redirect URL.
func (h *CheckoutHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		return
	}

	var body createCheckoutRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	successURL := strings.TrimSpace(body.SuccessURL)
	if successURL == "" {
		successURL = requestBaseURL(c) + "/checkout/success"
	}
	cancelURL := strings.TrimSpace(body.CancelURL)
	if cancelURL == "" {
		cancelURL = requestBaseURL(c) + "/checkout/cancel"
	}

	url, errStart := h.initiator.Start(c.Request.Context(), payment.Request{
		UserID:     user.ID,
		Voucher:    strings.TrimSpace(body.Voucher),
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if errStart != nil {
		var checkoutErr *payment.CheckoutError
		if errors.As(errStart, &checkoutErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": checkoutErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// requestBaseURL reconstructs the scheme and host of the inbound request.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
