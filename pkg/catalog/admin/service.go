package admin

import (
	"context"
	"errors"
	"time"

	"github.com/tendant/simple-catalog/pkg/catalog"
)

// ErrStatisticsUnsupported is returned when the repository cannot aggregate
// the catalog.
var ErrStatisticsUnsupported = errors.New("repository does not support statistics")

// AdminService defines operational read-only operations across all users.
//
// Endpoints exposing this service should sit behind authentication; it is
// meant for operators, not end users.
type AdminService interface {
	// GetStatistics returns aggregated counts for the whole catalog.
	GetStatistics(ctx context.Context) (*StatisticsResponse, error)
}

// StatisticsResponse wraps catalog statistics with the time they were computed
type StatisticsResponse struct {
	Statistics catalog.Statistics `json:"statistics"`
	ComputedAt time.Time          `json:"computed_at"`
}

type adminService struct {
	repo  catalog.Repository
	clock func() time.Time
}

var _ AdminService = (*adminService)(nil)

// New creates a new AdminService instance that uses the provided repository.
func New(repo catalog.Repository) AdminService {
	return &adminService{repo: repo, clock: time.Now}
}

func (s *adminService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	reader, ok := s.repo.(catalog.StatisticsReader)
	if !ok {
		return nil, ErrStatisticsUnsupported
	}

	stats, err := reader.CatalogStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return &StatisticsResponse{
		Statistics: *stats,
		ComputedAt: s.clock().UTC(),
	}, nil
}
