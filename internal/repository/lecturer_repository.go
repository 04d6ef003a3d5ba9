package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/lecture-scheduler/internal/models"
)

// LecturerRepository provides persistence for lecturers.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository creates a new lecturer repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// List returns lecturers with cursor pagination and optional name search.
func (r *LecturerRepository) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error) {
	base := "FROM lecturers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lecturers: %w", err)
	}

	if filter.Cursor != "" {
		base += fmt.Sprintf(" AND id > $%d", len(args)+1)
		args = append(args, filter.Cursor)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := fmt.Sprintf("SELECT id, name, day_offs, created_at, updated_at %s ORDER BY id ASC LIMIT %d", base, limit)
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lecturers: %w", err)
	}

	return lecturers, total, nil
}

// FindByID loads a lecturer by id.
func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	const query = `SELECT id, name, day_offs, created_at, updated_at FROM lecturers WHERE id = $1`
	var lecturer models.Lecturer
	if err := r.db.GetContext(ctx, &lecturer, query, id); err != nil {
		return nil, err
	}
	return &lecturer, nil
}

// FindByIDs loads every lecturer in ids. Unknown ids are silently absent
// from the result.
func (r *LecturerRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, day_offs, created_at, updated_at FROM lecturers WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build lecturer id query: %w", err)
	}
	query = r.db.Rebind(query)
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query, args...); err != nil {
		return nil, fmt.Errorf("find lecturers by ids: %w", err)
	}
	return lecturers, nil
}

// Create stores a new lecturer record.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lecturer.CreatedAt = now
	lecturer.UpdatedAt = now
	if lecturer.DayOffs == nil {
		lecturer.DayOffs = models.DayOffs{}
	}

	const query = `INSERT INTO lecturers (id, name, day_offs, created_at, updated_at) VALUES (:id, :name, :day_offs, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}

// UpdateDayOffs replaces a lecturer's day-off set.
func (r *LecturerRepository) UpdateDayOffs(ctx context.Context, id string, dayOffs models.DayOffs) error {
	if dayOffs == nil {
		dayOffs = models.DayOffs{}
	}
	res, err := r.db.ExecContext(ctx, `UPDATE lecturers SET day_offs = $1, updated_at = $2 WHERE id = $3`, dayOffs, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update lecturer day offs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lecturer day offs: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a lecturer and their lecture associations.
func (r *LecturerRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete lecturer: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM lecture_lecturers WHERE lecturer_id = $1`, id); err != nil {
		return fmt.Errorf("delete lecturer associations: %w", err)
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM lecturers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lecturer: %w", err)
	}
	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("delete lecturer: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete lecturer: %w", err)
	}
	return nil
}
