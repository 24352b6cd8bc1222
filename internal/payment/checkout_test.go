package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v79"
)

func newTestInitiator(create createSessionFunc) *Initiator {
	return &Initiator{
		productID: "prod_test123",
		voucher:   "Uflvb62d",
		create:    create,
	}
}

func TestStart_BuildsSingleLineItem(t *testing.T) {
	var captured *stripe.CheckoutSessionParams
	initiator := newTestInitiator(func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		captured = params
		return &stripe.CheckoutSession{URL: "https://checkout.example/s/abc"}, nil
	})

	url, err := initiator.Start(context.Background(), Request{
		UserID:     42,
		SuccessURL: "https://discobots.fr/checkout/success",
		CancelURL:  "https://discobots.fr/checkout/cancel",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if url != "https://checkout.example/s/abc" {
		t.Fatalf("unexpected redirect url %q", url)
	}

	if len(captured.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(captured.LineItems))
	}
	if got := stripe.StringValue(captured.LineItems[0].Price); got != "prod_test123" {
		t.Fatalf("expected product price ref, got %q", got)
	}
	if got := stripe.Int64Value(captured.LineItems[0].Quantity); got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}
	if got := stripe.StringValue(captured.ClientReferenceID); got != "42" {
		t.Fatalf("expected client reference 42, got %q", got)
	}
	if len(captured.Discounts) != 0 {
		t.Fatalf("expected no discount without voucher")
	}
}

func TestStart_KnownVoucherAttachesDiscount(t *testing.T) {
	var captured *stripe.CheckoutSessionParams
	initiator := newTestInitiator(func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		captured = params
		return &stripe.CheckoutSession{URL: "https://checkout.example/s/abc"}, nil
	})

	if _, err := initiator.Start(context.Background(), Request{Voucher: "Uflvb62d"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(captured.Discounts) != 1 {
		t.Fatalf("expected discount for known voucher")
	}
	if got := stripe.StringValue(captured.Discounts[0].Coupon); got != "Uflvb62d" {
		t.Fatalf("expected coupon Uflvb62d, got %q", got)
	}
}

func TestStart_UnknownVoucherSilentlyIgnored(t *testing.T) {
	var captured *stripe.CheckoutSessionParams
	initiator := newTestInitiator(func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		captured = params
		return &stripe.CheckoutSession{URL: "https://checkout.example/s/abc"}, nil
	})

	if _, err := initiator.Start(context.Background(), Request{Voucher: "NOTACODE"}); err != nil {
		t.Fatalf("expected unknown voucher not to error, got %v", err)
	}
	if len(captured.Discounts) != 0 {
		t.Fatalf("expected unknown voucher to attach no discount")
	}
}

func TestStart_ProcessorFailure(t *testing.T) {
	initiator := newTestInitiator(func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, errors.New("connection refused")
	})

	_, err := initiator.Start(context.Background(), Request{})
	var checkoutErr *CheckoutError
	if !errors.As(err, &checkoutErr) {
		t.Fatalf("expected CheckoutError, got %v", err)
	}
}
