package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	"github.com/campusdesk/lecture-scheduler/internal/repository"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
)

type stageRepository interface {
	List(ctx context.Context) ([]models.Stage, error)
	FindByID(ctx context.Context, id string) (*models.Stage, error)
	Create(ctx context.Context, stage *models.Stage) error
	Delete(ctx context.Context, id string) error
}

// CreateStageRequest describes payload for creating a stage.
type CreateStageRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// StageService manages cohort stages.
type StageService struct {
	repo      stageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStageService instantiates StageService.
func NewStageService(repo stageRepository, validate *validator.Validate, logger *zap.Logger) *StageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageService{repo: repo, validator: validate, logger: logger}
}

// List returns all stages.
func (s *StageService) List(ctx context.Context) ([]models.Stage, error) {
	stages, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stages")
	}
	return stages, nil
}

// FindByID loads one stage.
func (s *StageService) FindByID(ctx context.Context, id string) (*models.Stage, error) {
	stage, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stage")
	}
	return stage, nil
}

// Create inserts a new stage.
func (s *StageService) Create(ctx context.Context, req CreateStageRequest) (*models.Stage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}

	stage := models.Stage{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, &stage); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "stage name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create stage")
	}
	return &stage, nil
}

// Delete removes a stage. A stage still owning lectures cannot be removed.
func (s *StageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "stage not found")
		}
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "stage is referenced by existing lectures")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete stage")
	}
	return nil
}
