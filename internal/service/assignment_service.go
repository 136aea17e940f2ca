package service

import (
	"context"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/repository"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/response"
)

// AssignmentService handles assignment business logic: the back-office list
// and read pages, and the submission side of the draft engine. It implements
// draft.SubmissionService over the repository.
type AssignmentService struct {
	repo *repository.AssignmentRepository
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(repo *repository.AssignmentRepository) *AssignmentService {
	return &AssignmentService{repo: repo}
}

// List retrieves assignments with pagination.
func (s *AssignmentService) List(ctx context.Context, page, perPage int, search string) ([]model.AssignmentSummary, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	assignments, total, err := s.repo.List(ctx, limit, offset, search)
	if err != nil {
		return nil, nil, err
	}
	if assignments == nil {
		assignments = []model.AssignmentSummary{}
	}

	totalPages := (total + perPage - 1) / perPage
	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
	return assignments, pagination, nil
}

// Get retrieves a single assignment in the remote read shape.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*model.RemoteAssignment, error) {
	return s.repo.GetRemote(ctx, id)
}

// Create persists a new assignment from a reconciliation payload.
func (s *AssignmentService) Create(ctx context.Context, p *model.AssignmentPayload) (int64, error) {
	return s.repo.Create(ctx, p)
}

// Update replays a reconciliation payload against an existing assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, p *model.AssignmentPayload) error {
	return s.repo.Apply(ctx, id, p)
}
