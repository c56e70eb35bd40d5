package services

import (
	"context"
	"fmt"

	"eventhubconnect/internal/domain"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

type dashboardService struct {
	dashboardRepo domain.DashboardRepository
	activityRepo  domain.ActivityRepository
}

// NewDashboardService creates a DashboardService over the aggregate and activity repositories.
func NewDashboardService(dashboardRepo domain.DashboardRepository, activityRepo domain.ActivityRepository) domain.DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		activityRepo:  activityRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.dashboardRepo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) GetRecentActivity(ctx context.Context, limit int) ([]*domain.ActivityEntry, error) {
	if limit < 1 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	entries, err := s.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}
	return entries, nil
}
