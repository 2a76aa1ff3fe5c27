package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/flexfit/gymctl/internal/api"
	"github.com/flexfit/gymctl/internal/session"
)

// AdminCmd drives the admin tables. Every subcommand requires an admin
// session; the backend enforces that and the pipeline surfaces rejection.
type AdminCmd struct {
	Users     AdminUsersCmd     `cmd:"" help:"List member accounts"`
	Employees AdminEmployeesCmd `cmd:"" help:"List employee accounts"`
	SetRole   AdminSetRoleCmd   `cmd:"" name:"set-role" help:"Change an account's role"`
	Delete    AdminDeleteCmd    `cmd:"" help:"Delete an account"`
	Stats     AdminStatsCmd     `cmd:"" help:"Show monthly membership stats"`
	Equipment AdminEquipmentCmd `cmd:"" help:"List equipment issue reports"`
}

type AdminUsersCmd struct{}

func (a *AdminUsersCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	users, err := e.client.AdminUsers(ctx)
	if err != nil {
		return friendly(err)
	}

	return printAccounts(users)
}

type AdminEmployeesCmd struct{}

func (a *AdminEmployeesCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	employees, err := e.client.AdminEmployees(ctx)
	if err != nil {
		return friendly(err)
	}

	return printAccounts(employees)
}

type AdminSetRoleCmd struct {
	ID       int    `arg:"" help:"Account ID"`
	Role     string `arg:"" help:"New role (admin, trainer, member, non_member)"`
	Employee bool   `help:"Target an employee account instead of a member"`
}

func (a *AdminSetRoleCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	role := session.Role(a.Role)
	if a.Employee {
		err = e.client.SetEmployeeRole(ctx, a.ID, role)
	} else {
		err = e.client.SetUserRole(ctx, a.ID, role)
	}
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Role of account %d set to %s.\n", a.ID, a.Role)
	return nil
}

type AdminDeleteCmd struct {
	ID       int  `arg:"" help:"Account ID"`
	Employee bool `help:"Target an employee account instead of a member"`
}

func (a *AdminDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if a.Employee {
		err = e.client.DeleteEmployee(ctx, a.ID)
	} else {
		err = e.client.DeleteUser(ctx, a.ID)
	}
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Account %d deleted.\n", a.ID)
	return nil
}

type AdminStatsCmd struct{}

func (a *AdminStatsCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	stats, err := e.client.MembershipStats(ctx)
	if err != nil {
		return friendly(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "New members:\t%d\n", stats.NewMembers)
	fmt.Fprintf(w, "Total members:\t%d\n", stats.TotalMembers)
	fmt.Fprintf(w, "Membership revenue:\t%.2f\n", stats.MembershipRevenue)
	fmt.Fprintf(w, "Class revenue:\t%.2f\n", stats.ClassRevenue)
	fmt.Fprintf(w, "Merchandise sales:\t%.2f\n", stats.MerchandiseSales)
	fmt.Fprintf(w, "Total revenue:\t%.2f\n", stats.TotalRevenue)
	return w.Flush()
}

type AdminEquipmentCmd struct{}

func (a *AdminEquipmentCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	reports, err := e.client.EquipmentReports(ctx)
	if err != nil {
		return friendly(err)
	}

	if len(reports) == 0 {
		fmt.Println("No equipment reports.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEQUIPMENT\tISSUE\tREPORTED BY\tAT")
	for _, r := range reports {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.EquipmentName, r.IssueDescription, r.ReporterName, r.ReportedAt)
	}
	return w.Flush()
}

func printAccounts(accounts []api.AdminUser) error {
	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tEXPIRES")
	for _, u := range accounts {
		expiry := u.MembershipExpiry
		if expiry == "" {
			expiry = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, expiry)
	}
	return w.Flush()
}
