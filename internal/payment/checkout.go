// Package payment builds hosted-checkout sessions with the payment
// processor. Payment collection itself happens on the processor's pages;
// this package only produces the redirect target.
package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	log "github.com/sirupsen/logrus"
)

// CheckoutError wraps a processor-side failure. Callers surface a generic
// message and must not retry automatically.
type CheckoutError struct {
	Message string
}

// Error implements the error interface.
func (e *CheckoutError) Error() string { return e.Message }

// createSessionFunc creates a checkout session with the processor.
// Injectable for tests.
type createSessionFunc func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

// Initiator starts hosted checkout flows for a fixed product.
type Initiator struct {
	productID string
	voucher   string
	create    createSessionFunc
}

// NewInitiator constructs an Initiator. The product's price lives with
// the processor, not here; voucher is the single accepted discount code.
func NewInitiator(apiKey, productID, voucher string) *Initiator {
	stripe.Key = apiKey
	return &Initiator{
		productID: productID,
		voucher:   voucher,
		create:    checkoutsession.New,
	}
}

// Request carries the inputs for starting a checkout session.
type Request struct {
	UserID     uint64 // Authenticated user ID, zero when anonymous.
	Voucher    string // Discount code candidate; unknown codes are ignored.
	SuccessURL string
	CancelURL  string
}

// Start creates a checkout session and returns the processor's redirect
// URL. A voucher matching the configured code attaches the discount; any
// other value is silently ignored.
func (i *Initiator) Start(ctx context.Context, req Request) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(i.productID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	if req.Voucher != "" && req.Voucher == i.voucher {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(i.voucher)},
		}
	}
	if req.UserID != 0 {
		params.ClientReferenceID = stripe.String(strconv.FormatUint(req.UserID, 10))
	}

	created, errCreate := i.create(params)
	if errCreate != nil {
		log.WithError(errCreate).Error("checkout session creation failed")
		return "", &CheckoutError{Message: checkoutFailureMessage(errCreate)}
	}
	if created == nil || strings.TrimSpace(created.URL) == "" {
		return "", &CheckoutError{Message: "checkout session has no redirect url"}
	}
	return created.URL, nil
}

// checkoutFailureMessage keeps processor internals out of user-facing text.
func checkoutFailureMessage(err error) string {
	if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Code != "" {
		return fmt.Sprintf("payment processor rejected the request (%s)", stripeErr.Code)
	}
	return "payment processor unavailable"
}
