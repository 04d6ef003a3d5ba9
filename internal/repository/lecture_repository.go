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

const lectureColumns = `id, course_name, day_of_week, start_time, end_time, hours_number, room_id, stage_id, created_at, updated_at`

// overlapPredicate matches other lectures occupying the same room, stage
// and weekday whose [start_time, end_time] touches the candidate range.
const overlapPredicate = `room_id = $1 AND stage_id = $2 AND day_of_week = $3
	AND start_time IS NOT NULL AND end_time IS NOT NULL
	AND start_time <= $4::time AND end_time >= $5::time
	AND ($6 = '' OR id <> $6)`

// LectureRepository provides persistence for lectures and their lecturer
// associations.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository creates a new lecture repository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// FindOverlapping returns lectures sharing the room/stage/day whose time
// range overlaps slot, skipping excludeID when non-empty.
func (r *LectureRepository) FindOverlapping(ctx context.Context, roomID, stageID, day string, slot models.TimeRange, excludeID string) ([]models.Lecture, error) {
	query := fmt.Sprintf(`SELECT %s FROM lectures WHERE %s`, lectureColumns, overlapPredicate)
	var lectures []models.Lecture
	if err := r.db.SelectContext(ctx, &lectures, query, roomID, stageID, day, slot.End, slot.Start, excludeID); err != nil {
		return nil, fmt.Errorf("find overlapping lectures: %w", err)
	}
	return lectures, nil
}

// Create inserts the lecture and its lecturer associations in one
// serializable transaction. The room-slot overlap is rechecked inside the
// transaction so two concurrent creates cannot both pass the
// application-level conflict scan; models.ErrSlotTaken reports the loser.
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture, lecturerIDs []string) error {
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lecture.CreatedAt = now
	lecture.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin create lecture: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.guardSlot(ctx, tx, lecture, ""); err != nil {
		return err
	}

	const query = `INSERT INTO lectures (id, course_name, day_of_week, start_time, end_time, hours_number, room_id, stage_id, created_at, updated_at)
		VALUES (:id, :course_name, :day_of_week, :start_time, :end_time, :hours_number, :room_id, :stage_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, lecture); err != nil {
		if IsExclusionViolation(err) {
			err = models.ErrSlotTaken
			return err
		}
		return fmt.Errorf("create lecture: %w", err)
	}

	if err = r.setLecturersTx(ctx, tx, lecture.ID, lecturerIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create lecture: %w", err)
	}
	return nil
}

// Update replaces the lecture's mutable fields. When replaceLecturers is
// true the association set is swapped for lecturerIDs; otherwise it is left
// untouched. Same slot guard as Create, excluding the lecture itself.
func (r *LectureRepository) Update(ctx context.Context, lecture *models.Lecture, lecturerIDs []string, replaceLecturers bool) error {
	lecture.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin update lecture: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.guardSlot(ctx, tx, lecture, lecture.ID); err != nil {
		return err
	}

	const query = `UPDATE lectures SET course_name = :course_name, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time,
		hours_number = :hours_number, room_id = :room_id, stage_id = :stage_id, updated_at = :updated_at WHERE id = :id`
	var res sql.Result
	if res, err = tx.NamedExecContext(ctx, query, lecture); err != nil {
		if IsExclusionViolation(err) {
			err = models.ErrSlotTaken
			return err
		}
		return fmt.Errorf("update lecture: %w", err)
	}
	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("update lecture: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if replaceLecturers {
		if _, err = tx.ExecContext(ctx, `DELETE FROM lecture_lecturers WHERE lecture_id = $1`, lecture.ID); err != nil {
			return fmt.Errorf("clear lecture lecturers: %w", err)
		}
		if err = r.setLecturersTx(ctx, tx, lecture.ID, lecturerIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update lecture: %w", err)
	}
	return nil
}

// guardSlot reruns the overlap check inside tx for fully scheduled lectures.
func (r *LectureRepository) guardSlot(ctx context.Context, tx *sqlx.Tx, lecture *models.Lecture, excludeID string) error {
	slot, ok := lecture.TimeRange()
	if !ok || lecture.RoomID == nil || lecture.DayOfWeek == nil {
		return nil
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM lectures WHERE %s)`, overlapPredicate)
	var taken bool
	if err := tx.GetContext(ctx, &taken, query, *lecture.RoomID, lecture.StageID, *lecture.DayOfWeek, slot.End, slot.Start, excludeID); err != nil {
		return fmt.Errorf("recheck room slot: %w", err)
	}
	if taken {
		return models.ErrSlotTaken
	}
	return nil
}

func (r *LectureRepository) setLecturersTx(ctx context.Context, tx *sqlx.Tx, lectureID string, lecturerIDs []string) error {
	seen := make(map[string]struct{}, len(lecturerIDs))
	for _, lecturerID := range lecturerIDs {
		if _, dup := seen[lecturerID]; dup {
			continue
		}
		seen[lecturerID] = struct{}{}
		if _, err := tx.ExecContext(ctx, `INSERT INTO lecture_lecturers (lecture_id, lecturer_id) VALUES ($1, $2)`, lectureID, lecturerID); err != nil {
			return fmt.Errorf("attach lecturer %s: %w", lecturerID, err)
		}
	}
	return nil
}

// FindByID loads a lecture with room, stage and lecturers resolved.
func (r *LectureRepository) FindByID(ctx context.Context, id string) (*models.Lecture, error) {
	query := fmt.Sprintf(`SELECT %s FROM lectures WHERE id = $1`, lectureColumns)
	var lecture models.Lecture
	if err := r.db.GetContext(ctx, &lecture, query, id); err != nil {
		return nil, err
	}
	lectures := []models.Lecture{lecture}
	if err := r.hydrate(ctx, lectures); err != nil {
		return nil, err
	}
	return &lectures[0], nil
}

// List returns hydrated lectures filtered by stage and creation window,
// oldest first.
func (r *LectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, error) {
	base := fmt.Sprintf("SELECT %s FROM lectures WHERE 1=1", lectureColumns)
	var conditions []string
	var args []interface{}

	if filter.StageID != "" {
		conditions = append(conditions, fmt.Sprintf("stage_id = $%d", len(args)+1))
		args = append(args, filter.StageID)
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.CreatedTo)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY created_at ASC"

	var lectures []models.Lecture
	if err := r.db.SelectContext(ctx, &lectures, base, args...); err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	if err := r.hydrate(ctx, lectures); err != nil {
		return nil, err
	}
	return lectures, nil
}

// Periods returns per-stage creation windows ordered by their start, used
// for period navigation in listings.
func (r *LectureRepository) Periods(ctx context.Context, stageID string) ([]models.Period, error) {
	query := `SELECT MIN(created_at) AS start_date, MAX(created_at) AS end_date FROM lectures`
	var args []interface{}
	if stageID != "" {
		query += ` WHERE stage_id = $1`
		args = append(args, stageID)
	}
	query += ` GROUP BY stage_id ORDER BY start_date ASC`

	rows := []struct {
		Start time.Time `db:"start_date"`
		End   time.Time `db:"end_date"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lecture periods: %w", err)
	}

	periods := make([]models.Period, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, models.Period{Start: row.Start, End: row.End})
	}
	return periods, nil
}

// Delete removes a lecture and its association rows.
func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete lecture: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM lecture_lecturers WHERE lecture_id = $1`, id); err != nil {
		return fmt.Errorf("delete lecture associations: %w", err)
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete lecture: %w", err)
	}
	return nil
}

type lectureLecturerRow struct {
	LectureID string `db:"lecture_id"`
	models.Lecturer
}

// hydrate resolves rooms, stages and lecturer sets for the given lectures.
func (r *LectureRepository) hydrate(ctx context.Context, lectures []models.Lecture) error {
	if len(lectures) == 0 {
		return nil
	}

	lectureIDs := make([]string, 0, len(lectures))
	roomIDs := make([]string, 0, len(lectures))
	stageIDs := make([]string, 0, len(lectures))
	seenRooms := make(map[string]struct{})
	seenStages := make(map[string]struct{})
	for i := range lectures {
		lectureIDs = append(lectureIDs, lectures[i].ID)
		if lectures[i].RoomID != nil {
			if _, ok := seenRooms[*lectures[i].RoomID]; !ok {
				seenRooms[*lectures[i].RoomID] = struct{}{}
				roomIDs = append(roomIDs, *lectures[i].RoomID)
			}
		}
		if _, ok := seenStages[lectures[i].StageID]; !ok {
			seenStages[lectures[i].StageID] = struct{}{}
			stageIDs = append(stageIDs, lectures[i].StageID)
		}
	}

	rooms := make(map[string]models.Room)
	if len(roomIDs) > 0 {
		query, args, err := sqlx.In(`SELECT id, room_name, created_at, updated_at FROM rooms WHERE id IN (?)`, roomIDs)
		if err != nil {
			return fmt.Errorf("build room query: %w", err)
		}
		var list []models.Room
		if err := r.db.SelectContext(ctx, &list, r.db.Rebind(query), args...); err != nil {
			return fmt.Errorf("hydrate rooms: %w", err)
		}
		for _, room := range list {
			rooms[room.ID] = room
		}
	}

	stages := make(map[string]models.Stage)
	{
		query, args, err := sqlx.In(`SELECT id, name, description, created_at, updated_at FROM stages WHERE id IN (?)`, stageIDs)
		if err != nil {
			return fmt.Errorf("build stage query: %w", err)
		}
		var list []models.Stage
		if err := r.db.SelectContext(ctx, &list, r.db.Rebind(query), args...); err != nil {
			return fmt.Errorf("hydrate stages: %w", err)
		}
		for _, stage := range list {
			stages[stage.ID] = stage
		}
	}

	lecturersByLecture := make(map[string][]models.Lecturer)
	{
		query, args, err := sqlx.In(`SELECT ll.lecture_id, l.id, l.name, l.day_offs, l.created_at, l.updated_at
			FROM lecture_lecturers ll JOIN lecturers l ON l.id = ll.lecturer_id WHERE ll.lecture_id IN (?) ORDER BY l.name ASC`, lectureIDs)
		if err != nil {
			return fmt.Errorf("build lecturer query: %w", err)
		}
		var list []lectureLecturerRow
		if err := r.db.SelectContext(ctx, &list, r.db.Rebind(query), args...); err != nil {
			return fmt.Errorf("hydrate lecturers: %w", err)
		}
		for _, row := range list {
			lecturersByLecture[row.LectureID] = append(lecturersByLecture[row.LectureID], row.Lecturer)
		}
	}

	for i := range lectures {
		if lectures[i].RoomID != nil {
			if room, ok := rooms[*lectures[i].RoomID]; ok {
				cp := room
				lectures[i].Room = &cp
			}
		}
		if stage, ok := stages[lectures[i].StageID]; ok {
			cp := stage
			lectures[i].Stage = &cp
		}
		attached := lecturersByLecture[lectures[i].ID]
		if attached == nil {
			attached = []models.Lecturer{}
		}
		lectures[i].Lecturers = attached
	}
	return nil
}
