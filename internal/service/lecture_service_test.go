package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
)

type lectureRepoFake struct {
	stored []models.Lecture

	created          *models.Lecture
	createdLecturers []string
	createErr        error

	updated          *models.Lecture
	updatedLecturers []string
	replaceLecturers bool
	updateErr        error

	periods []models.Period

	lastExcludeID   string
	overlapQueried  bool
	overlapQueryErr error
}

func (f *lectureRepoFake) List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, error) {
	return f.stored, nil
}

func (f *lectureRepoFake) Periods(ctx context.Context, stageID string) ([]models.Period, error) {
	return f.periods, nil
}

func (f *lectureRepoFake) FindByID(ctx context.Context, id string) (*models.Lecture, error) {
	if f.created != nil && f.created.ID == id {
		cp := *f.created
		return &cp, nil
	}
	if f.updated != nil && f.updated.ID == id {
		cp := *f.updated
		return &cp, nil
	}
	for i := range f.stored {
		if f.stored[i].ID == id {
			cp := f.stored[i]
			return &cp, nil
		}
	}
	return nil, errNoRows()
}

func (f *lectureRepoFake) FindOverlapping(ctx context.Context, roomID, stageID, day string, slot models.TimeRange, excludeID string) ([]models.Lecture, error) {
	f.overlapQueried = true
	f.lastExcludeID = excludeID
	if f.overlapQueryErr != nil {
		return nil, f.overlapQueryErr
	}
	var out []models.Lecture
	for i := range f.stored {
		l := f.stored[i]
		if l.ID == excludeID || l.RoomID == nil || *l.RoomID != roomID || l.StageID != stageID {
			continue
		}
		if l.DayOfWeek == nil || *l.DayOfWeek != day {
			continue
		}
		if r, ok := l.TimeRange(); ok && r.Overlaps(slot) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *lectureRepoFake) Create(ctx context.Context, lecture *models.Lecture, lecturerIDs []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	lecture.ID = "lec-new"
	lecture.CreatedAt = time.Now().UTC()
	f.created = lecture
	f.createdLecturers = lecturerIDs
	return nil
}

func (f *lectureRepoFake) Update(ctx context.Context, lecture *models.Lecture, lecturerIDs []string, replaceLecturers bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = lecture
	f.updatedLecturers = lecturerIDs
	f.replaceLecturers = replaceLecturers
	return nil
}

func (f *lectureRepoFake) Delete(ctx context.Context, id string) error { return nil }

type lecturerDirectoryFake struct {
	lecturers map[string]models.Lecturer
	queried   bool
}

func (f *lecturerDirectoryFake) FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error) {
	f.queried = true
	var out []models.Lecturer
	for _, id := range ids {
		if l, ok := f.lecturers[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

type roomDirectoryFake struct {
	rooms map[string]models.Room
}

func (f *roomDirectoryFake) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if r, ok := f.rooms[id]; ok {
		cp := r
		return &cp, nil
	}
	return nil, errNoRows()
}

func errNoRows() error { return sql.ErrNoRows }

func strPtr(v string) *string { return &v }

func scheduledLecture(id, roomID, stageID, day, start, end string) models.Lecture {
	return models.Lecture{
		ID:        id,
		RoomID:    strPtr(roomID),
		StageID:   stageID,
		DayOfWeek: strPtr(day),
		StartTime: strPtr(start),
		EndTime:   strPtr(end),
	}
}

func newLectureServiceFixture(repo *lectureRepoFake, lecturers *lecturerDirectoryFake, rooms *roomDirectoryFake) *LectureService {
	if lecturers == nil {
		lecturers = &lecturerDirectoryFake{}
	}
	if rooms == nil {
		rooms = &roomDirectoryFake{}
	}
	return NewLectureService(repo, lecturers, rooms, nil, nil)
}

func conflictsFrom(t *testing.T, err error) []models.Conflict {
	t.Helper()
	require.Error(t, err)
	var conflictErr *models.ConflictError
	require.True(t, errors.As(err, &conflictErr), "expected conflict error, got %v", err)
	assert.Equal(t, "Conflicts detected.", conflictErr.Message)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	return conflictErr.Conflicts
}

func TestLectureServiceCreateDayOffConflict(t *testing.T) {
	repo := &lectureRepoFake{}
	lecturers := &lecturerDirectoryFake{lecturers: map[string]models.Lecturer{
		"lect-1": {ID: "lect-1", Name: "Alice", DayOffs: models.DayOffs{"Monday"}},
	}}
	svc := newLectureServiceFixture(repo, lecturers, nil)

	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:     "stage-1",
		DayOfWeek:   "Monday",
		LecturerIDs: []string{"lect-1"},
	})

	conflicts := conflictsFrom(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeDayOff, conflicts[0].Type)
	assert.Equal(t, "Alice", conflicts[0].Lecturer)
	assert.Equal(t, "Monday", conflicts[0].Day)
	assert.Equal(t, "Lecturer Alice is off on Monday", conflicts[0].Reason)
	assert.Nil(t, repo.created, "conflicting lecture must not be persisted")
}

func TestLectureServiceCreateRoomConflict(t *testing.T) {
	repo := &lectureRepoFake{stored: []models.Lecture{
		scheduledLecture("lec-1", "room-1", "stage-1", "Monday", "09:00:00", "11:00:00"),
	}}
	rooms := &roomDirectoryFake{rooms: map[string]models.Room{
		"room-1": {ID: "room-1", Name: "Hall A"},
	}}
	svc := newLectureServiceFixture(repo, nil, rooms)

	// Fully contained in the existing booking: still exactly one conflict.
	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:   "stage-1",
		RoomID:    "room-1",
		DayOfWeek: "Monday",
		StartTime: "10:00:00",
		EndTime:   "10:30:00",
	})

	conflicts := conflictsFrom(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[0].Type)
	assert.Equal(t, "Room is already booked in that slot.", conflicts[0].Reason)
	assert.Equal(t, "Hall A", conflicts[0].Room)
	assert.Equal(t, "10:00:00", conflicts[0].StartTime)
	assert.Equal(t, "10:30:00", conflicts[0].EndTime)
	assert.Nil(t, repo.created)
}

func TestLectureServiceCreateReportsDayOffBeforeRoom(t *testing.T) {
	repo := &lectureRepoFake{stored: []models.Lecture{
		scheduledLecture("lec-1", "room-1", "stage-1", "Monday", "09:00:00", "11:00:00"),
	}}
	lecturers := &lecturerDirectoryFake{lecturers: map[string]models.Lecturer{
		"lect-1": {ID: "lect-1", Name: "Alice", DayOffs: models.DayOffs{"Monday"}},
	}}
	svc := newLectureServiceFixture(repo, lecturers, nil)

	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:     "stage-1",
		RoomID:      "room-1",
		DayOfWeek:   "Monday",
		StartTime:   "10:00:00",
		EndTime:     "10:30:00",
		LecturerIDs: []string{"lect-1"},
	})

	conflicts := conflictsFrom(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictTypeDayOff, conflicts[0].Type)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[1].Type)
}

func TestLectureServiceCreateDifferentStageNoConflict(t *testing.T) {
	repo := &lectureRepoFake{stored: []models.Lecture{
		scheduledLecture("lec-1", "room-1", "stage-1", "Monday", "09:00:00", "11:00:00"),
	}}
	svc := newLectureServiceFixture(repo, nil, nil)

	lecture, err := svc.Create(context.Background(), LectureRequest{
		StageID:   "stage-2",
		RoomID:    "room-1",
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
	})
	require.NoError(t, err)
	require.NotNil(t, lecture)
	assert.Equal(t, "stage-2", lecture.StageID)
}

func TestLectureServiceCreatePartialLectureSkipsChecks(t *testing.T) {
	repo := &lectureRepoFake{stored: []models.Lecture{
		scheduledLecture("lec-1", "room-1", "stage-1", "Monday", "09:00:00", "11:00:00"),
	}}
	lecturers := &lecturerDirectoryFake{}
	svc := newLectureServiceFixture(repo, lecturers, nil)

	lecture, err := svc.Create(context.Background(), LectureRequest{
		StageID:    "stage-1",
		CourseName: "Algorithms",
	})
	require.NoError(t, err)
	require.NotNil(t, lecture)
	assert.False(t, repo.overlapQueried, "no room/time set, overlap check must be skipped")
	assert.False(t, lecturers.queried, "no day set, day-off check must be skipped")
	require.NotNil(t, repo.created)
	assert.Nil(t, repo.created.DayOfWeek)
	assert.Nil(t, repo.created.RoomID)
	assert.Equal(t, "Algorithms", *repo.created.CourseName)
}

func TestLectureServiceCreateNormalisesEmptyStrings(t *testing.T) {
	repo := &lectureRepoFake{}
	svc := newLectureServiceFixture(repo, nil, nil)

	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:    "stage-1",
		CourseName: "",
		DayOfWeek:  "",
		StartTime:  "",
		EndTime:    "",
		RoomID:     "",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Nil(t, repo.created.CourseName)
	assert.Nil(t, repo.created.DayOfWeek)
	assert.Nil(t, repo.created.StartTime)
	assert.Nil(t, repo.created.EndTime)
	assert.Nil(t, repo.created.RoomID)
}

func TestLectureServiceCreateValidation(t *testing.T) {
	svc := newLectureServiceFixture(&lectureRepoFake{}, nil, nil)

	_, err := svc.Create(context.Background(), LectureRequest{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Create(context.Background(), LectureRequest{StageID: "stage-1", DayOfWeek: "Friday"})
	appErr = appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid day(s): Friday", appErr.Message)

	_, err = svc.Create(context.Background(), LectureRequest{StageID: "stage-1", StartTime: "9am", EndTime: "10:00:00"})
	appErr = appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLectureServiceCreateSlotTakenRace(t *testing.T) {
	repo := &lectureRepoFake{createErr: models.ErrSlotTaken}
	svc := newLectureServiceFixture(repo, nil, nil)

	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:   "stage-1",
		RoomID:    "room-1",
		DayOfWeek: "Tuesday",
		StartTime: "08:00:00",
		EndTime:   "09:00:00",
	})

	conflicts := conflictsFrom(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[0].Type)
}

func TestLectureServiceUpdateExcludesItself(t *testing.T) {
	existing := scheduledLecture("lec-1", "room-1", "stage-1", "Monday", "09:00:00", "11:00:00")
	existing.Lecturers = []models.Lecturer{}
	repo := &lectureRepoFake{stored: []models.Lecture{existing}}
	svc := newLectureServiceFixture(repo, nil, nil)

	// Re-saving the same slot must not conflict with itself.
	lecture, err := svc.Update(context.Background(), "lec-1", LectureRequest{
		StageID:   "stage-1",
		RoomID:    "room-1",
		DayOfWeek: "Monday",
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
	})
	require.NoError(t, err)
	require.NotNil(t, lecture)
	assert.Equal(t, "lec-1", repo.lastExcludeID)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "lec-1", repo.updated.ID)
}

func TestLectureServiceUpdateKeepsLecturersWhenOmitted(t *testing.T) {
	existing := scheduledLecture("lec-1", "room-1", "stage-1", "Tuesday", "09:00:00", "10:00:00")
	existing.Lecturers = []models.Lecturer{{ID: "lect-1", Name: "Bob", DayOffs: models.DayOffs{"Monday"}}}
	repo := &lectureRepoFake{stored: []models.Lecture{existing}}
	lecturers := &lecturerDirectoryFake{lecturers: map[string]models.Lecturer{
		"lect-1": {ID: "lect-1", Name: "Bob", DayOffs: models.DayOffs{"Monday"}},
	}}
	svc := newLectureServiceFixture(repo, lecturers, nil)

	// Moving the lecture onto Bob's day off must conflict even though the
	// request does not restate the lecturer assignment.
	_, err := svc.Update(context.Background(), "lec-1", LectureRequest{
		StageID:   "stage-1",
		DayOfWeek: "Monday",
	})
	conflicts := conflictsFrom(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Lecturer Bob is off on Monday", conflicts[0].Reason)

	// A legal move with the list omitted keeps the association untouched.
	_, err = svc.Update(context.Background(), "lec-1", LectureRequest{
		StageID:   "stage-1",
		DayOfWeek: "Wednesday",
	})
	require.NoError(t, err)
	assert.False(t, repo.replaceLecturers)
	assert.Nil(t, repo.updatedLecturers)
}

func TestLectureServiceUpdateReplacesLecturersWhenGiven(t *testing.T) {
	existing := scheduledLecture("lec-1", "room-1", "stage-1", "Tuesday", "09:00:00", "10:00:00")
	existing.Lecturers = []models.Lecturer{{ID: "lect-1", Name: "Bob"}}
	repo := &lectureRepoFake{stored: []models.Lecture{existing}}
	lecturers := &lecturerDirectoryFake{lecturers: map[string]models.Lecturer{
		"lect-2": {ID: "lect-2", Name: "Carol"},
	}}
	svc := newLectureServiceFixture(repo, lecturers, nil)

	_, err := svc.Update(context.Background(), "lec-1", LectureRequest{
		StageID:     "stage-1",
		DayOfWeek:   "Tuesday",
		LecturerIDs: []string{"lect-2"},
	})
	require.NoError(t, err)
	assert.True(t, repo.replaceLecturers)
	assert.Equal(t, []string{"lect-2"}, repo.updatedLecturers)
}

func TestLectureServiceUpdateNotFound(t *testing.T) {
	svc := newLectureServiceFixture(&lectureRepoFake{}, nil, nil)
	_, err := svc.Update(context.Background(), "missing", LectureRequest{StageID: "stage-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "lecture not found", appErr.Message)
}

func TestLectureServiceListPeriodNavigation(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	periods := []models.Period{
		{Start: day(1), End: day(5)},
		{Start: day(10), End: day(15)},
		{Start: day(20), End: day(25)},
	}
	repo := &lectureRepoFake{periods: periods}
	svc := newLectureServiceFixture(repo, nil, nil)

	from, to := day(10), day(15)
	page, err := svc.List(context.Background(), models.LectureFilter{StageID: "stage-1", CreatedFrom: &from, CreatedTo: &to})
	require.NoError(t, err)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrevious)
	require.NotNil(t, page.NextPeriod)
	assert.Equal(t, day(20), page.NextPeriod.Start)
	require.NotNil(t, page.PrevPeriod)
	assert.Equal(t, day(1), page.PrevPeriod.Start)
	require.NotNil(t, page.StartDate)
	assert.Equal(t, from.Format(time.RFC3339), *page.StartDate)

	// No window selected: navigation starts before the first period.
	page, err = svc.List(context.Background(), models.LectureFilter{StageID: "stage-1"})
	require.NoError(t, err)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	require.NotNil(t, page.NextPeriod)
	assert.Equal(t, day(1), page.NextPeriod.Start)
	assert.NotNil(t, page.Data)
}

type lockerFake struct {
	acquired  bool
	busy      bool
	err       error
	released  []string
	lastKey   string
	lastTTL   time.Duration
	acquireds int
}

func (f *lockerFake) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.lastKey = key
	f.lastTTL = ttl
	f.acquireds++
	if f.err != nil {
		return false, f.err
	}
	if f.busy {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *lockerFake) Release(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

func TestLectureServiceSlotLock(t *testing.T) {
	repo := &lectureRepoFake{}
	locker := &lockerFake{}
	svc := newLectureServiceFixture(repo, nil, nil).WithSlotLock(locker, 5*time.Second)

	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:   "stage-1",
		RoomID:    "room-1",
		DayOfWeek: "Sunday",
		StartTime: "08:00:00",
		EndTime:   "09:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "slot:room-1:stage-1:Sunday", locker.lastKey)
	assert.Equal(t, 5*time.Second, locker.lastTTL)
	assert.Equal(t, []string{"slot:room-1:stage-1:Sunday"}, locker.released)
}

func TestLectureServiceSlotLockBusy(t *testing.T) {
	repo := &lectureRepoFake{}
	locker := &lockerFake{busy: true}
	svc := newLectureServiceFixture(repo, nil, nil).WithSlotLock(locker, 5*time.Second)

	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:   "stage-1",
		RoomID:    "room-1",
		DayOfWeek: "Sunday",
		StartTime: "08:00:00",
		EndTime:   "09:00:00",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Nil(t, repo.created)
}

func TestLectureServiceSlotLockDegradesOnError(t *testing.T) {
	repo := &lectureRepoFake{}
	locker := &lockerFake{err: errors.New("redis down")}
	svc := newLectureServiceFixture(repo, nil, nil).WithSlotLock(locker, 5*time.Second)

	// Lock infrastructure failure must not block scheduling; the
	// serializable transaction still guards the write.
	_, err := svc.Create(context.Background(), LectureRequest{
		StageID:   "stage-1",
		RoomID:    "room-1",
		DayOfWeek: "Sunday",
		StartTime: "08:00:00",
		EndTime:   "09:00:00",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
}
