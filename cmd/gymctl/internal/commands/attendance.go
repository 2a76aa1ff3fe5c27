package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/flexfit/gymctl/internal/api"
)

// AttendanceCmd tracks gym visits.
type AttendanceCmd struct {
	Status   AttendanceStatusCmd   `cmd:"" default:"1" help:"Show current check-in status"`
	History  AttendanceHistoryCmd  `cmd:"" help:"Show visit history"`
	CheckIn  AttendanceCheckInCmd  `cmd:"" name:"check-in" help:"Check in"`
	CheckOut AttendanceCheckOutCmd `cmd:"" name:"check-out" help:"Check out"`
	Watch    AttendanceWatchCmd    `cmd:"" help:"Watch check-in status"`
}

type AttendanceStatusCmd struct{}

func (a *AttendanceStatusCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	status, err := e.client.Attendance(ctx)
	if err != nil {
		return friendly(err)
	}

	printStatus(status)
	return nil
}

type AttendanceHistoryCmd struct {
	Days int `help:"Days of history" default:"7"`
}

func (a *AttendanceHistoryCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	records, err := e.client.AttendanceHistory(ctx, a.Days)
	if err != nil {
		return friendly(err)
	}

	if len(records) == 0 {
		fmt.Printf("No visits in the last %d days.\n", a.Days)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK-IN\tCHECK-OUT")
	for _, r := range records {
		out := r.CheckOutTime
		if out == "" {
			out = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", r.CheckInTime, out)
	}
	return w.Flush()
}

type AttendanceCheckInCmd struct{}

func (a *AttendanceCheckInCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.client.CheckIn(ctx); err != nil {
		return friendly(err)
	}

	fmt.Println("Checked in. Have a good workout!")
	return nil
}

type AttendanceCheckOutCmd struct{}

func (a *AttendanceCheckOutCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.client.CheckOut(ctx); err != nil {
		return friendly(err)
	}

	fmt.Println("Checked out.")
	return nil
}

type AttendanceWatchCmd struct {
	Interval time.Duration `help:"Poll interval" default:"30s"`
}

func (a *AttendanceWatchCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	err = e.client.WatchAttendance(ctx, a.Interval, func(status *api.AttendanceStatus) {
		fmt.Printf("[%s] ", time.Now().Format(time.Kitchen))
		printStatus(status)
	})
	return friendly(err)
}

func printStatus(status *api.AttendanceStatus) {
	if status.CheckedIn {
		fmt.Printf("Checked in since %s\n", status.CheckInTime)
		return
	}
	if status.LastVisit != "" {
		fmt.Printf("Not checked in (last visit %s)\n", status.LastVisit)
		return
	}
	fmt.Println("Not checked in.")
}
