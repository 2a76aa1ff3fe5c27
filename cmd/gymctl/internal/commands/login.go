package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/flexfit/gymctl/internal/api"
	"github.com/flexfit/gymctl/internal/routes"
)

// LoginCmd authenticates and reports the post-login destination for the
// user's role.
type LoginCmd struct {
	Email    string        `help:"Account email" required:""`
	Password string        `help:"Account password" required:"" env:"GYMCTL_PASSWORD"`
	Wait     time.Duration `help:"Wait for the server to become reachable" default:"0"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if l.Wait > 0 {
		if err := e.client.WaitReady(ctx, l.Wait); err != nil {
			return err
		}
	}

	sess, err := e.client.Login(ctx, l.Email, l.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", l.Email, sess.Role())
	fmt.Printf("Destination: %s\n", routes.DestinationFor(sess.Role()))
	return nil
}

// RegisterCmd creates an account, optionally completing the membership
// signup wizard (payment method + plan purchase) in one go.
type RegisterCmd struct {
	Name        string `help:"Full name" required:""`
	Email       string `help:"Account email" required:""`
	Password    string `help:"Account password" required:"" env:"GYMCTL_PASSWORD"`
	DOB         string `help:"Date of birth (YYYY-MM-DD)"`
	Address     string `help:"Street address"`
	City        string `help:"City"`
	State       string `help:"State"`
	Zipcode     string `help:"Zip code"`
	AutoPayment bool   `help:"Enable automatic payments" default:"true"`

	Plan           string `help:"Membership plan to purchase after registering"`
	CardNumber     string `help:"Card number (required with --plan)"`
	CardExp        string `help:"Card expiry (YYYY-MM-DD, required with --plan)"`
	CardCVV        string `help:"Card security code (required with --plan)"`
	CardHolderName string `help:"Name on card (required with --plan)"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	sess, err := e.client.Register(ctx, api.RegistrationForm{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		DOB:         r.DOB,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Zipcode:     r.Zipcode,
		AutoPayment: r.AutoPayment,
	})
	if err != nil {
		return err
	}

	if sess.AccessToken == "" {
		fmt.Println("Registered. Log in to continue:")
		fmt.Printf("  gymctl login --email %s\n", r.Email)
		return nil
	}

	fmt.Printf("Registered and logged in as %s\n", r.Email)

	if r.Plan != "" {
		method, err := e.client.AddPaymentMethod(ctx, api.PaymentMethodForm{
			CardNumber:     r.CardNumber,
			Exp:            r.CardExp,
			CVV:            r.CardCVV,
			CardHolderName: r.CardHolderName,
		})
		if err != nil {
			return fmt.Errorf("failed to add payment method: %w", err)
		}

		if err := e.client.PurchaseMembership(ctx, r.Plan, method.ID); err != nil {
			return fmt.Errorf("failed to purchase membership: %w", err)
		}

		fmt.Printf("Membership purchased: %s\n", r.Plan)
	}

	fmt.Printf("Destination: %s\n", routes.DestinationFor(sess.Role()))
	return nil
}

// LogoutCmd tears the local session down and notifies the server
// best-effort.
type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.client.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}
