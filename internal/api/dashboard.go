package api

import "context"

// Membership is the member's active membership as shown on the dashboard.
type Membership struct {
	MemberName  string `json:"member_name"`
	Email       string `json:"email"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zipcode     string `json:"zipcode,omitempty"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date,omitempty"`
	Expiration  string `json:"expiration,omitempty"`
	AutoPayment bool   `json:"auto_payment"`
}

// UpcomingClass is a booked class shown on the dashboard.
type UpcomingClass struct {
	ID           int    `json:"id"`
	ClassName    string `json:"class_name"`
	ScheduleTime string `json:"schedule_time"`
	TrainerName  string `json:"trainer_name"`
}

// DashboardSummary is the member dashboard payload.
type DashboardSummary struct {
	Membership      *Membership     `json:"membership"`
	UpcomingClasses []UpcomingClass `json:"upcoming_classes"`
}

// Dashboard fetches the member's dashboard summary.
func (c *Client) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.getJSON(ctx, summaryPath, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
