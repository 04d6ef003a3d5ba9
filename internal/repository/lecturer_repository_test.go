package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/lecture-scheduler/internal/models"
)

func TestLecturerRepositoryListSearchAndCursor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM lecturers WHERE 1=1 AND name ILIKE $1`)).
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, day_offs, created_at, updated_at FROM lecturers WHERE 1=1 AND name ILIKE $1 AND id > $2 ORDER BY id ASC LIMIT 2`)).
		WithArgs("%ali%", "lect-0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "day_offs", "created_at", "updated_at"}).
			AddRow("lect-1", "Alice", []byte(`["Monday"]`), now, now).
			AddRow("lect-2", "Alina", []byte(`[]`), now, now))

	lecturers, total, err := repo.List(context.Background(), models.LecturerFilter{Search: "ali", Cursor: "lect-0", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, lecturers, 2)
	assert.Equal(t, models.DayOffs{"Monday"}, lecturers[0].DayOffs)
	assert.Empty(t, lecturers[1].DayOffs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryUpdateDayOffs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE lecturers SET day_offs = $1, updated_at = $2 WHERE id = $3`)).
		WithArgs([]byte(`["Sunday","Thursday"]`), sqlmock.AnyArg(), "lect-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDayOffs(context.Background(), "lect-1", models.DayOffs{"Sunday", "Thursday"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryUpdateDayOffsMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE lecturers SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDayOffs(context.Background(), "missing", models.DayOffs{"Sunday"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLecturerRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLecturerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lecture_lecturers WHERE lecturer_id = $1`)).
		WithArgs("lect-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM lecturers WHERE id = $1`)).
		WithArgs("lect-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "lect-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
