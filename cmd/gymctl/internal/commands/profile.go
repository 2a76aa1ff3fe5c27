package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// ProfileCmd shows the authenticated user's profile.
type ProfileCmd struct{}

func (p *ProfileCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	profile, err := e.client.Profile(ctx)
	if err != nil {
		return friendly(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", profile.Name)
	fmt.Fprintf(w, "Email:\t%s\n", profile.Email)
	fmt.Fprintf(w, "Role:\t%s\n", profile.Role)
	if profile.Address != "" {
		fmt.Fprintf(w, "Address:\t%s, %s %s %s\n", profile.Address, profile.City, profile.State, profile.Zipcode)
	}
	if profile.MembershipExpiry != "" {
		fmt.Fprintf(w, "Membership expires:\t%s\n", profile.MembershipExpiry)
	}
	fmt.Fprintf(w, "Auto payment:\t%t\n", profile.AutoPayment)
	return w.Flush()
}

// DashboardCmd shows the member dashboard summary.
type DashboardCmd struct{}

func (d *DashboardCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	summary, err := e.client.Dashboard(ctx)
	if err != nil {
		return friendly(err)
	}

	if m := summary.Membership; m != nil {
		fmt.Printf("Membership: %s", m.Status)
		if m.Expiration != "" {
			fmt.Printf(" (expires %s)", m.Expiration)
		}
		fmt.Println()
	} else {
		fmt.Println("No active membership.")
	}

	if len(summary.UpcomingClasses) == 0 {
		fmt.Println("No upcoming classes.")
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLASS\tTRAINER\tTIME")
	for _, c := range summary.UpcomingClasses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.ClassName, c.TrainerName, c.ScheduleTime)
	}
	return w.Flush()
}
