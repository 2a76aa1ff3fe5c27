package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// ClassesCmd works with the class calendar.
type ClassesCmd struct {
	List   ClassesListCmd   `cmd:"" default:"1" help:"List upcoming classes"`
	Book   ClassesBookCmd   `cmd:"" help:"Book a class"`
	Cancel ClassesCancelCmd `cmd:"" help:"Cancel a booking"`
}

type ClassesListCmd struct{}

func (c *ClassesListCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	classes, err := e.client.Classes(ctx)
	if err != nil {
		return friendly(err)
	}

	if len(classes) == 0 {
		fmt.Println("No upcoming classes.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLASS\tTRAINER\tTIME\tBOOKED")
	for _, cl := range classes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\n",
			cl.ID, cl.ClassName, cl.TrainerName, cl.ScheduleTime, cl.CurrentBookings, cl.Capacity)
	}
	return w.Flush()
}

type ClassesBookCmd struct {
	ID int `arg:"" help:"Class ID"`
}

func (c *ClassesBookCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.client.BookClass(ctx, c.ID); err != nil {
		return friendly(err)
	}

	fmt.Printf("Booked class %d.\n", c.ID)
	return nil
}

type ClassesCancelCmd struct {
	ID int `arg:"" help:"Class ID"`
}

func (c *ClassesCancelCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.client.CancelClass(ctx, c.ID); err != nil {
		return friendly(err)
	}

	fmt.Printf("Cancelled booking for class %d.\n", c.ID)
	return nil
}
