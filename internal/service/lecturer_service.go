package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
)

type lecturerRepository interface {
	List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error)
	FindByID(ctx context.Context, id string) (*models.Lecturer, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error)
	Create(ctx context.Context, lecturer *models.Lecturer) error
	UpdateDayOffs(ctx context.Context, id string, dayOffs models.DayOffs) error
	Delete(ctx context.Context, id string) error
}

// CreateLecturerRequest describes payload for creating a lecturer.
type CreateLecturerRequest struct {
	Name    string   `json:"name" validate:"required"`
	DayOffs []string `json:"day_offs"`
}

// UpdateDayOffsRequest replaces a lecturer's day-off set.
type UpdateDayOffsRequest struct {
	DayOffs []string `json:"day_offs" validate:"required"`
}

// LecturerService manages the lecturer roster and day-off registry.
type LecturerService struct {
	repo      lecturerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLecturerService instantiates LecturerService.
func NewLecturerService(repo lecturerRepository, validate *validator.Validate, logger *zap.Logger) *LecturerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LecturerService{repo: repo, validator: validate, logger: logger}
}

// List returns lecturers with cursor pagination metadata.
func (s *LecturerService) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, *models.CursorPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	lecturers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	page := &models.CursorPage{Limit: filter.Limit, Total: total}
	if len(lecturers) == filter.Limit {
		cursor := lecturers[len(lecturers)-1].ID
		page.NextCursor = &cursor
	}
	return lecturers, page, nil
}

// Create inserts a new lecturer after validating the day-off set.
func (s *LecturerService) Create(ctx context.Context, req CreateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}
	if err := validateDayOffs(req.DayOffs); err != nil {
		return nil, err
	}

	lecturer := models.Lecturer{Name: req.Name, DayOffs: models.DayOffs(req.DayOffs)}
	if err := s.repo.Create(ctx, &lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecturer")
	}
	return &lecturer, nil
}

// UpdateDayOffs replaces the day-off registry entry for one lecturer.
func (s *LecturerService) UpdateDayOffs(ctx context.Context, id string, req UpdateDayOffsRequest) (*models.Lecturer, error) {
	if req.DayOffs == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_offs must be an array")
	}
	if err := validateDayOffs(req.DayOffs); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDayOffs(ctx, id, models.DayOffs(req.DayOffs)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update day offs")
	}

	lecturer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	return lecturer, nil
}

// Delete removes a lecturer and their lecture associations.
func (s *LecturerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecturer")
	}
	return nil
}

func validateDayOffs(days []string) error {
	if invalid := models.InvalidWeekdays(days); len(invalid) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Invalid day(s): %s", strings.Join(invalid, ", ")))
	}
	return nil
}
