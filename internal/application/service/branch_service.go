package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/pkg/apperror"
	"github.com/mabatisales/mabati-api/pkg/utils"
)

// BranchService handles branch operations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// CreateBranchInput represents the create branch input
type CreateBranchInput struct {
	Name     string
	Location *string
	Phone    *string
}

// CreateBranch creates a new branch
func (s *BranchService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	if input.Name == "" {
		return nil, &entity.ValidationError{Field: "name", Message: "name is required"}
	}

	slug := utils.Slugify(input.Name)
	existing, err := s.branchRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A branch with this name already exists")
	}

	branch := &entity.Branch{
		Name:     input.Name,
		Slug:     slug,
		Location: input.Location,
		Phone:    input.Phone,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// UpdateBranchInput represents the update branch input
type UpdateBranchInput struct {
	Name     *string
	Location *string
	Phone    *string
}

// UpdateBranch updates a branch
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, input *UpdateBranchInput) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	if input.Name != nil {
		branch.Name = *input.Name
		branch.Slug = utils.Slugify(*input.Name)
	}
	if input.Location != nil {
		branch.Location = input.Location
	}
	if input.Phone != nil {
		branch.Phone = input.Phone
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch soft deletes a branch
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil {
		return apperror.NewNotFoundError("Branch")
	}
	return s.branchRepo.Delete(ctx, id)
}

// ListBranches lists all branches
func (s *BranchService) ListBranches(ctx context.Context) ([]entity.Branch, error) {
	return s.branchRepo.List(ctx)
}
