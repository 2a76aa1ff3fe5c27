package api

import (
	"context"
	"fmt"
)

// Class is one upcoming class on the schedule.
type Class struct {
	ID              int    `json:"id"`
	ClassName       string `json:"class_name"`
	TrainerID       int    `json:"trainer_id"`
	TrainerName     string `json:"trainer_name"`
	ScheduleTime    string `json:"schedule_time"`
	Capacity        int    `json:"capacity"`
	CurrentBookings int    `json:"current_bookings"`
}

// Classes lists the upcoming class schedule. The response is cacheable; the
// caching transport honours the backend's Cache-Control headers.
func (c *Client) Classes(ctx context.Context) ([]Class, error) {
	var classes []Class
	if err := c.getJSON(ctx, classesPath, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// BookClass books a spot in a class. Full or already-booked classes surface
// as APIError with the backend's message.
func (c *Client) BookClass(ctx context.Context, classID int) error {
	return c.postJSON(ctx, fmt.Sprintf("%s/%d/book", classesPath, classID), nil, nil)
}

// CancelClass cancels an existing booking. Classes that already started
// cannot be cancelled.
func (c *Client) CancelClass(ctx context.Context, classID int) error {
	return c.deleteJSON(ctx, fmt.Sprintf("%s/%d/cancel", classesPath, classID), nil)
}
