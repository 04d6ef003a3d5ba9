package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/lecture-scheduler/internal/models"
)

// StageRepository provides persistence for stages.
type StageRepository struct {
	db *sqlx.DB
}

// NewStageRepository creates a new stage repository.
func NewStageRepository(db *sqlx.DB) *StageRepository {
	return &StageRepository{db: db}
}

// List returns all stages ordered by name.
func (r *StageRepository) List(ctx context.Context) ([]models.Stage, error) {
	const query = `SELECT id, name, description, created_at, updated_at FROM stages ORDER BY name ASC`
	var stages []models.Stage
	if err := r.db.SelectContext(ctx, &stages, query); err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return stages, nil
}

// FindByID loads a stage by id.
func (r *StageRepository) FindByID(ctx context.Context, id string) (*models.Stage, error) {
	const query = `SELECT id, name, description, created_at, updated_at FROM stages WHERE id = $1`
	var stage models.Stage
	if err := r.db.GetContext(ctx, &stage, query, id); err != nil {
		return nil, err
	}
	return &stage, nil
}

// Create stores a new stage record.
func (r *StageRepository) Create(ctx context.Context, stage *models.Stage) error {
	if stage.ID == "" {
		stage.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	stage.CreatedAt = now
	stage.UpdatedAt = now

	const query = `INSERT INTO stages (id, name, description, created_at, updated_at) VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, stage); err != nil {
		return fmt.Errorf("create stage: %w", err)
	}
	return nil
}

// Delete removes a stage by id. Returns sql.ErrNoRows when nothing matched.
func (r *StageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
