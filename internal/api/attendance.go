package api

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// AttendanceStatus is the member's current check-in state.
type AttendanceStatus struct {
	CheckedIn   bool   `json:"checked_in"`
	CheckInTime string `json:"check_in_time,omitempty"`
	LastVisit   string `json:"last_visit,omitempty"`
}

// AttendanceRecord is one visit in the attendance history.
type AttendanceRecord struct {
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time,omitempty"`
}

// Attendance returns the member's current check-in status.
func (c *Client) Attendance(ctx context.Context) (*AttendanceStatus, error) {
	var status AttendanceStatus
	if err := c.getJSON(ctx, attendancePath+"/current", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// AttendanceHistory returns visits within the last N days.
func (c *Client) AttendanceHistory(ctx context.Context, days int) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	path := fmt.Sprintf("%s/history?days=%d", attendancePath, days)
	if err := c.getJSON(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CheckIn records a gym entry. Checking in twice surfaces the backend's
// "already checked in" as APIError.
func (c *Client) CheckIn(ctx context.Context) error {
	return c.postJSON(ctx, attendancePath+"/check-in", nil, nil)
}

// CheckOut closes the active check-in.
func (c *Client) CheckOut(ctx context.Context) error {
	return c.postJSON(ctx, attendancePath+"/check-out", nil, nil)
}

// WatchAttendance polls the current status at the given interval and invokes
// fn on every successful read. Transient failures are retried with
// exponential backoff; auth failures are terminal and end the watch.
func (c *Client) WatchAttendance(ctx context.Context, interval time.Duration, fn func(*AttendanceStatus)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := backoff.Retry(ctx, func() (*AttendanceStatus, error) {
			status, err := c.Attendance(ctx)
			if err != nil {
				if IsAuthFailure(err) {
					return nil, backoff.Permanent(err)
				}
				return nil, err
			}
			return status, nil
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(interval),
			backoff.WithNotify(func(err error, next time.Duration) {
				log.Warn().Err(err).Dur("next_retry", next).Msg("attendance poll failed, will retry")
			}))
		if err != nil {
			return err
		}

		fn(status)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
