package domain

import "context"

// DashboardStats holds the read-only aggregate counts for the admin dashboard.
// swagger:model DashboardStats
type DashboardStats struct {
	TotalEvents        int `json:"total_events"`
	TotalUsers         int `json:"total_users"`
	TotalRegistrations int `json:"total_registrations"`
	TotalCertificates  int `json:"total_certificates"`
	TotalAttended      int `json:"total_attended"`
}

// DashboardRepository runs the aggregate queries backing the dashboard.
type DashboardRepository interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}

// DashboardService exposes dashboard aggregation and the recent activity feed.
type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	GetRecentActivity(ctx context.Context, limit int) ([]*ActivityEntry, error)
}
