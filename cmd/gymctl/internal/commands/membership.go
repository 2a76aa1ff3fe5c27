package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/flexfit/gymctl/internal/api"
)

// MembershipCmd manages the membership itself.
type MembershipCmd struct {
	Plans    MembershipPlansCmd    `cmd:"" default:"1" help:"List available plans"`
	Purchase MembershipPurchaseCmd `cmd:"" help:"Purchase a membership"`
	Cancel   MembershipCancelCmd   `cmd:"" help:"Cancel membership and delete the account"`
}

type MembershipPlansCmd struct{}

func (m *MembershipPlansCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	plans, err := e.client.MembershipPlans(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAN\tPRICE")
	for _, p := range plans {
		fmt.Fprintf(w, "%d\t%s\t%.2f\n", p.ID, p.Name, p.Price)
	}
	return w.Flush()
}

type MembershipPurchaseCmd struct {
	Plan           string `arg:"" help:"Membership plan"`
	CardNumber     string `help:"Card number" required:""`
	CardExp        string `help:"Card expiry (YYYY-MM-DD)" required:""`
	CardCVV        string `help:"Card security code" required:""`
	CardHolderName string `help:"Name on card" required:""`
}

func (m *MembershipPurchaseCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	method, err := e.client.AddPaymentMethod(ctx, api.PaymentMethodForm{
		CardNumber:     m.CardNumber,
		Exp:            m.CardExp,
		CVV:            m.CardCVV,
		CardHolderName: m.CardHolderName,
	})
	if err != nil {
		return friendly(err)
	}

	if err := e.client.PurchaseMembership(ctx, m.Plan, method.ID); err != nil {
		return friendly(err)
	}

	fmt.Printf("Membership purchased: %s\n", m.Plan)
	return nil
}

type MembershipCancelCmd struct {
	Yes bool `help:"Skip the confirmation prompt"`
}

func (m *MembershipCancelCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if !m.Yes {
		fmt.Print("This cancels your membership and deletes your account. Continue? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := e.client.CancelMembership(ctx); err != nil {
		return friendly(err)
	}

	fmt.Println("Membership cancelled. Your account has been deleted.")
	return nil
}
