package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
)

type lecturerRepoFake struct {
	list    []models.Lecturer
	total   int
	byID    map[string]models.Lecturer
	created *models.Lecturer

	updatedID      string
	updatedDayOffs models.DayOffs
	updateErr      error
	deleteErr      error
	lastFilter     models.LecturerFilter
}

func (f *lecturerRepoFake) List(ctx context.Context, filter models.LecturerFilter) ([]models.Lecturer, int, error) {
	f.lastFilter = filter
	return f.list, f.total, nil
}

func (f *lecturerRepoFake) FindByID(ctx context.Context, id string) (*models.Lecturer, error) {
	if l, ok := f.byID[id]; ok {
		cp := l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *lecturerRepoFake) FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error) {
	return nil, nil
}

func (f *lecturerRepoFake) Create(ctx context.Context, lecturer *models.Lecturer) error {
	lecturer.ID = "lect-new"
	f.created = lecturer
	return nil
}

func (f *lecturerRepoFake) UpdateDayOffs(ctx context.Context, id string, dayOffs models.DayOffs) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedDayOffs = dayOffs
	return nil
}

func (f *lecturerRepoFake) Delete(ctx context.Context, id string) error { return f.deleteErr }

func TestLecturerServiceCreate(t *testing.T) {
	repo := &lecturerRepoFake{}
	svc := NewLecturerService(repo, nil, nil)

	lecturer, err := svc.Create(context.Background(), CreateLecturerRequest{
		Name:    "Alice",
		DayOffs: []string{"Monday", "Wednesday"},
	})
	require.NoError(t, err)
	assert.Equal(t, "lect-new", lecturer.ID)
	assert.Equal(t, models.DayOffs{"Monday", "Wednesday"}, lecturer.DayOffs)
}

func TestLecturerServiceCreateRejectsInvalidDays(t *testing.T) {
	svc := NewLecturerService(&lecturerRepoFake{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateLecturerRequest{
		Name:    "Alice",
		DayOffs: []string{"Monday", "Friday", "Saturday"},
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid day(s): Friday, Saturday", appErr.Message)

	_, err = svc.Create(context.Background(), CreateLecturerRequest{})
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLecturerServiceUpdateDayOffs(t *testing.T) {
	repo := &lecturerRepoFake{byID: map[string]models.Lecturer{
		"lect-1": {ID: "lect-1", Name: "Alice", DayOffs: models.DayOffs{"Sunday"}},
	}}
	svc := NewLecturerService(repo, nil, nil)

	lecturer, err := svc.UpdateDayOffs(context.Background(), "lect-1", UpdateDayOffsRequest{DayOffs: []string{"Sunday"}})
	require.NoError(t, err)
	assert.Equal(t, "lect-1", repo.updatedID)
	assert.Equal(t, models.DayOffs{"Sunday"}, repo.updatedDayOffs)
	assert.Equal(t, "Alice", lecturer.Name)

	// Empty array is a legal registry state, clearing all day offs.
	_, err = svc.UpdateDayOffs(context.Background(), "lect-1", UpdateDayOffsRequest{DayOffs: []string{}})
	require.NoError(t, err)
	assert.Len(t, repo.updatedDayOffs, 0)

	_, err = svc.UpdateDayOffs(context.Background(), "lect-1", UpdateDayOffsRequest{DayOffs: []string{"Caturday"}})
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Invalid day(s): Caturday", appErr.Message)

	repo.updateErr = sql.ErrNoRows
	_, err = svc.UpdateDayOffs(context.Background(), "missing", UpdateDayOffsRequest{DayOffs: []string{"Sunday"}})
	appErr = appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestLecturerServiceListPagination(t *testing.T) {
	repo := &lecturerRepoFake{
		list: []models.Lecturer{
			{ID: "lect-1", Name: "Alice"},
			{ID: "lect-2", Name: "Bob"},
		},
		total: 5,
	}
	svc := NewLecturerService(repo, nil, nil)

	lecturers, page, err := svc.List(context.Background(), models.LecturerFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, lecturers, 2)
	assert.Equal(t, 5, page.Total)
	require.NotNil(t, page.NextCursor, "full page implies another page may follow")
	assert.Equal(t, "lect-2", *page.NextCursor)

	// Short page: listing is exhausted.
	repo.list = repo.list[:1]
	_, page, err = svc.List(context.Background(), models.LecturerFilter{Limit: 2})
	require.NoError(t, err)
	assert.Nil(t, page.NextCursor)

	// Limit defaults when unset.
	_, _, err = svc.List(context.Background(), models.LecturerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFilter.Limit)
}

func TestLecturerServiceDeleteNotFound(t *testing.T) {
	repo := &lecturerRepoFake{deleteErr: sql.ErrNoRows}
	svc := NewLecturerService(repo, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
