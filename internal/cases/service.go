package cases

import (
	"context"

	"github.com/casewatch/casewatch/internal/shared"
)

// RepositoryPort defines data access methods for cases.
type RepositoryPort interface {
	ListCases(ctx context.Context, limit, offset int) ([]Case, int, error)
	GetBySlug(ctx context.Context, slug string) (Case, error)
}

// Service handles case listing and lookup.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListCases returns one page of cases with pagination metadata.
func (s *Service) ListCases(ctx context.Context, page int) ([]Case, shared.Pagination, error) {
	pagination := shared.NewPagination(page, 20, 0)
	list, total, err := s.repo.ListCases(ctx, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, pagination.PerPage, total), nil
}

// GetBySlug fetches one case by its slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Case, error) {
	return s.repo.GetBySlug(ctx, slug)
}
