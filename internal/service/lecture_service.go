package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
	"github.com/campusdesk/lecture-scheduler/pkg/lock"
)

type lectureRepository interface {
	List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, error)
	Periods(ctx context.Context, stageID string) ([]models.Period, error)
	FindByID(ctx context.Context, id string) (*models.Lecture, error)
	FindOverlapping(ctx context.Context, roomID, stageID, day string, slot models.TimeRange, excludeID string) ([]models.Lecture, error)
	Create(ctx context.Context, lecture *models.Lecture, lecturerIDs []string) error
	Update(ctx context.Context, lecture *models.Lecture, lecturerIDs []string, replaceLecturers bool) error
	Delete(ctx context.Context, id string) error
}

type lecturerDirectory interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Lecturer, error)
}

type roomDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// LectureRequest describes the payload for creating or updating a lecture.
// Only the stage is mandatory; empty strings are normalised to unset.
// A nil LecturerIDs on update leaves the existing assignment untouched.
type LectureRequest struct {
	CourseName  string   `json:"course_name"`
	DayOfWeek   string   `json:"day_of_week"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	HoursNumber *int     `json:"hours_number"`
	RoomID      string   `json:"room_id"`
	StageID     string   `json:"stage_id" validate:"required"`
	LecturerIDs []string `json:"lecturer_ids"`
}

// LectureService coordinates lecture lifecycle and conflict detection.
type LectureService struct {
	repo      lectureRepository
	lecturers lecturerDirectory
	rooms     roomDirectory
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cache     *CacheService
	locker    lock.Locker
	lockTTL   time.Duration
}

// NewLectureService instantiates LectureService. The locker is optional;
// when nil the serializable insert transaction is the only write guard.
func NewLectureService(repo lectureRepository, lecturers lecturerDirectory, rooms roomDirectory, validate *validator.Validate, logger *zap.Logger) *LectureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LectureService{repo: repo, lecturers: lecturers, rooms: rooms, validator: validate, logger: logger}
}

// WithMetrics attaches conflict metrics recording.
func (s *LectureService) WithMetrics(metrics *MetricsService) *LectureService {
	s.metrics = metrics
	return s
}

// WithCache attaches listing-cache behaviour.
func (s *LectureService) WithCache(cache *CacheService) *LectureService {
	s.cache = cache
	return s
}

// WithSlotLock attaches the redis slot lock held across check-then-write.
func (s *LectureService) WithSlotLock(locker lock.Locker, ttl time.Duration) *LectureService {
	s.locker = locker
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	s.lockTTL = ttl
	return s
}

// Create validates, runs conflict detection and persists a new lecture.
func (s *LectureService) Create(ctx context.Context, req LectureRequest) (*models.Lecture, error) {
	lecture, err := s.buildLecture(req)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.detectConflicts(ctx, lecture, req.LecturerIDs, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(conflicts)
	}

	release, err := s.lockSlot(ctx, lecture)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.repo.Create(ctx, lecture, req.LecturerIDs); err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			return nil, s.conflictError([]models.Conflict{s.roomConflict(ctx, lecture)})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecture")
	}

	s.invalidateListings(ctx)

	hydrated, err := s.repo.FindByID(ctx, lecture.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created lecture")
	}
	return hydrated, nil
}

// Update replaces a lecture's mutable fields, excluding the lecture itself
// from conflict detection so an unchanged slot never conflicts.
func (s *LectureService) Update(ctx context.Context, id string, req LectureRequest) (*models.Lecture, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}

	lecture, err := s.buildLecture(req)
	if err != nil {
		return nil, err
	}
	lecture.ID = existing.ID
	lecture.CreatedAt = existing.CreatedAt

	// A missing lecturer list means "keep the current assignment"; day-off
	// checks still run against whoever ends up assigned.
	lecturerIDs := req.LecturerIDs
	replaceLecturers := lecturerIDs != nil
	if lecturerIDs == nil {
		for _, l := range existing.Lecturers {
			lecturerIDs = append(lecturerIDs, l.ID)
		}
	}

	conflicts, err := s.detectConflicts(ctx, lecture, lecturerIDs, lecture.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(conflicts)
	}

	release, err := s.lockSlot(ctx, lecture)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.repo.Update(ctx, lecture, req.LecturerIDs, replaceLecturers); err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			return nil, s.conflictError([]models.Conflict{s.roomConflict(ctx, lecture)})
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecture")
	}

	s.invalidateListings(ctx)

	hydrated, err := s.repo.FindByID(ctx, lecture.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated lecture")
	}
	return hydrated, nil
}

// Delete removes a lecture and its lecturer associations.
func (s *LectureService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecture")
	}
	s.invalidateListings(ctx)
	return nil
}

// List returns hydrated lectures with creation-period navigation.
func (s *LectureService) List(ctx context.Context, filter models.LectureFilter) (*models.LecturePage, error) {
	key := listingCacheKey(filter)
	if s.cache.Enabled() {
		var cached models.LecturePage
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	lectures, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lectures")
	}
	if lectures == nil {
		lectures = []models.Lecture{}
	}

	periods, err := s.repo.Periods(ctx, filter.StageID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture periods")
	}

	page := &models.LecturePage{Data: lectures}
	currentIndex := -1
	if filter.CreatedFrom != nil && filter.CreatedTo != nil {
		start := filter.CreatedFrom.Format(time.RFC3339)
		end := filter.CreatedTo.Format(time.RFC3339)
		page.StartDate = &start
		page.EndDate = &end
		for i, period := range periods {
			if filter.CreatedFrom.Equal(period.Start) && filter.CreatedTo.Equal(period.End) {
				currentIndex = i
				break
			}
		}
	}
	page.HasNext = currentIndex < len(periods)-1
	page.HasPrevious = currentIndex > 0
	if page.HasNext {
		next := periods[currentIndex+1]
		page.NextPeriod = &next
	}
	if page.HasPrevious {
		prev := periods[currentIndex-1]
		page.PrevPeriod = &prev
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, page, 0)
	}
	return page, nil
}

// detectConflicts runs the day-off check, then the room overlap check.
// Checks whose inputs are incomplete are skipped: a partially scheduled
// lecture is legal and simply narrows what can be validated.
func (s *LectureService) detectConflicts(ctx context.Context, lecture *models.Lecture, lecturerIDs []string, excludeID string) ([]models.Conflict, error) {
	var conflicts []models.Conflict

	if lecture.DayOfWeek != nil && len(lecturerIDs) > 0 {
		lecturers, err := s.lecturers.FindByIDs(ctx, lecturerIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturers for conflict check")
		}
		day := *lecture.DayOfWeek
		for _, lecturer := range lecturers {
			if lecturer.DayOffs.Contains(day) {
				conflicts = append(conflicts, models.Conflict{
					Type:     models.ConflictTypeDayOff,
					Lecturer: lecturer.Name,
					Day:      day,
					Reason:   fmt.Sprintf("Lecturer %s is off on %s", lecturer.Name, day),
				})
			}
		}
	}

	if slot, ok := lecture.TimeRange(); ok && lecture.RoomID != nil && lecture.DayOfWeek != nil {
		overlapping, err := s.repo.FindOverlapping(ctx, *lecture.RoomID, lecture.StageID, *lecture.DayOfWeek, slot, excludeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room conflicts")
		}
		for range overlapping {
			conflicts = append(conflicts, s.roomConflict(ctx, lecture))
		}
	}

	return conflicts, nil
}

func (s *LectureService) roomConflict(ctx context.Context, lecture *models.Lecture) models.Conflict {
	conflict := models.Conflict{
		Type:   models.ConflictTypeRoom,
		Reason: "Room is already booked in that slot.",
	}
	if lecture.StartTime != nil {
		conflict.StartTime = *lecture.StartTime
	}
	if lecture.EndTime != nil {
		conflict.EndTime = *lecture.EndTime
	}
	if lecture.RoomID != nil {
		conflict.Room = *lecture.RoomID
		if s.rooms != nil {
			if room, err := s.rooms.FindByID(ctx, *lecture.RoomID); err == nil {
				conflict.Room = room.Name
			}
		}
	}
	return conflict
}

func (s *LectureService) conflictError(conflicts []models.Conflict) error {
	if s.metrics != nil {
		for _, c := range conflicts {
			s.metrics.RecordConflict(c.Type)
		}
	}
	domainErr := &models.ConflictError{Message: "Conflicts detected.", Conflicts: conflicts}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, domainErr.Message)
}

// lockSlot takes the redis slot lock for fully scheduled lectures. The
// returned release func is always safe to call.
func (s *LectureService) lockSlot(ctx context.Context, lecture *models.Lecture) (func(), error) {
	noop := func() {}
	if s.locker == nil || lecture.RoomID == nil || lecture.DayOfWeek == nil {
		return noop, nil
	}
	key := fmt.Sprintf("slot:%s:%s:%s", *lecture.RoomID, lecture.StageID, *lecture.DayOfWeek)
	ok, err := s.locker.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.Warn("slot lock unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return noop, appErrors.Clone(appErrors.ErrConflict, "slot is being scheduled by another request, retry shortly")
	}
	return func() {
		if err := s.locker.Release(ctx, key); err != nil {
			s.logger.Warn("slot lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *LectureService) invalidateListings(ctx context.Context) {
	if s.cache.Enabled() {
		s.cache.Invalidate(ctx, "lectures:*")
	}
}

// buildLecture validates the request and normalises optional fields to an
// explicit unset marker; empty strings are never coerced to defaults.
func (s *LectureService) buildLecture(req LectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "stage_id is required")
	}

	day := toNull(req.DayOfWeek)
	if day != nil && !models.IsWeekday(*day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Invalid day(s): %s", *day))
	}

	start := toNull(req.StartTime)
	end := toNull(req.EndTime)
	for _, t := range []*string{start, end} {
		if t == nil {
			continue
		}
		if _, err := time.Parse("15:04:05", *t); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time of day %q, want HH:MM:SS", *t))
		}
	}

	return &models.Lecture{
		CourseName:  toNull(req.CourseName),
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		HoursNumber: req.HoursNumber,
		RoomID:      toNull(req.RoomID),
		StageID:     req.StageID,
	}, nil
}

func toNull(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func listingCacheKey(filter models.LectureFilter) string {
	from, to := "", ""
	if filter.CreatedFrom != nil {
		from = filter.CreatedFrom.Format(time.RFC3339)
	}
	if filter.CreatedTo != nil {
		to = filter.CreatedTo.Format(time.RFC3339)
	}
	return fmt.Sprintf("lectures:%s:%s:%s", filter.StageID, from, to)
}
