package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/intramural-stats/models"
	"github.com/Dosada05/intramural-stats/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
	now           Clock
}

func NewDashboardService(dashboardRepo repositories.DashboardRepository, clock Clock) DashboardService {
	if clock == nil {
		clock = systemClock
	}
	return &dashboardService{dashboardRepo: dashboardRepo, now: clock}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	stats, err := s.dashboardRepo.Stats(ctx, s.now())
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return stats, nil
}
