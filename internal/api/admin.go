package api

import (
	"context"
	"fmt"

	"github.com/flexfit/gymctl/internal/session"
)

// AdminUser is a member account as listed in the admin tables.
type AdminUser struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Role             session.Role `json:"role"`
	MembershipExpiry string       `json:"membership_expiry,omitempty"`
	AutoPayment      bool         `json:"auto_payment"`
}

// EquipmentReport is a reported equipment issue.
type EquipmentReport struct {
	ID               int    `json:"id"`
	EquipmentName    string `json:"equipment_name"`
	IssueDescription string `json:"issue_description"`
	ReportedAt       string `json:"reported_at"`
	ReporterName     string `json:"reporter_name"`
}

// MembershipStats is the monthly membership and revenue report.
type MembershipStats struct {
	NewMembers        int     `json:"new_members"`
	Renewals          int     `json:"renewals"`
	TotalMembers      int     `json:"total_members"`
	MembershipRevenue float64 `json:"membership_revenue"`
	ClassRevenue      float64 `json:"class_revenue"`
	MerchandiseSales  float64 `json:"merchandise_sales"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// AdminUsers lists member and non-member accounts. Admin only; a non-admin
// session gets a 403, which the pipeline treats like any other authorization
// rejection.
func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var users []AdminUser
	if err := c.getJSON(ctx, adminPath+"/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminEmployees lists trainer and admin accounts.
func (c *Client) AdminEmployees(ctx context.Context) ([]AdminUser, error) {
	var employees []AdminUser
	if err := c.getJSON(ctx, adminPath+"/employees", &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// SetUserRole changes a user's role.
func (c *Client) SetUserRole(ctx context.Context, userID int, role session.Role) error {
	return c.putJSON(ctx, fmt.Sprintf("%s/users/%d/role", adminPath, userID),
		map[string]string{"role": string(role)}, nil)
}

// SetEmployeeRole changes an employee's role.
func (c *Client) SetEmployeeRole(ctx context.Context, employeeID int, role session.Role) error {
	return c.putJSON(ctx, fmt.Sprintf("%s/employees/%d/role", adminPath, employeeID),
		map[string]string{"role": string(role)}, nil)
}

// DeleteUser removes a member account.
func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	return c.deleteJSON(ctx, fmt.Sprintf("%s/users/%d", adminPath, userID), nil)
}

// DeleteEmployee removes an employee account.
func (c *Client) DeleteEmployee(ctx context.Context, employeeID int) error {
	return c.deleteJSON(ctx, fmt.Sprintf("%s/employees/%d", adminPath, employeeID), nil)
}

// MembershipStats fetches the monthly membership and revenue report.
func (c *Client) MembershipStats(ctx context.Context) (*MembershipStats, error) {
	var stats MembershipStats
	if err := c.getJSON(ctx, adminPath+"/membership-stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// EquipmentReports lists reported equipment issues, newest first.
func (c *Client) EquipmentReports(ctx context.Context) ([]EquipmentReport, error) {
	var reports []EquipmentReport
	if err := c.getJSON(ctx, adminPath+"/equipment-reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
