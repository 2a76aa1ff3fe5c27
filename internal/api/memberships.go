package api

import (
	"context"

	"github.com/rs/zerolog/log"
)

// PaymentMethod is a stored card reference returned by the payments
// endpoint. Card details are write-only; the backend returns an id.
type PaymentMethod struct {
	ID int `json:"id"`
}

// PaymentMethodForm is the card submitted in the signup flow.
type PaymentMethodForm struct {
	CardNumber     string `json:"card_number"`
	Exp            string `json:"exp"`
	CVV            string `json:"cvv"`
	CardHolderName string `json:"card_holder_name"`
}

// MembershipPlan is one purchasable plan.
type MembershipPlan struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// MembershipPlans lists the purchasable plans. This endpoint predates the
// auth layer and requires no session.
func (c *Client) MembershipPlans(ctx context.Context) ([]MembershipPlan, error) {
	var plans []MembershipPlan
	if err := c.getPlainJSON(ctx, membershipPath, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// AddPaymentMethod stores a card and returns its reference. Middle leg of
// the signup wizard, between registration and purchase.
func (c *Client) AddPaymentMethod(ctx context.Context, form PaymentMethodForm) (*PaymentMethod, error) {
	var method PaymentMethod
	if err := c.postJSON(ctx, "/api/payment-methods", form, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

// PurchaseMembership buys a membership using a stored payment method. Final
// leg of the signup wizard.
func (c *Client) PurchaseMembership(ctx context.Context, membershipType string, paymentMethodID int) error {
	return c.postJSON(ctx, membershipPath+"/purchase", map[string]any{
		"membership_type":   membershipType,
		"payment_method_id": paymentMethodID,
	}, nil)
}

// CancelMembership cancels the membership and deletes the account. The
// local session is torn down unconditionally afterwards, same rule as
// logout: the account no longer exists, so the tokens are dead either way.
func (c *Client) CancelMembership(ctx context.Context) error {
	if err := c.postJSON(ctx, membershipPath+"/cancel", nil, nil); err != nil {
		return err
	}

	if err := c.store.Clear(); err != nil {
		return err
	}
	c.mirror.Clear()

	log.Info().Msg("membership cancelled, session cleared")

	return nil
}
