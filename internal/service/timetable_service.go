package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
	"github.com/campusdesk/lecture-scheduler/pkg/export"
)

type timetableLectureSource interface {
	List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, error)
}

// ExportResult is a rendered timetable document.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// TimetableService renders a stage's lecture list as CSV or PDF.
type TimetableService struct {
	lectures timetableLectureSource
	stages   stageRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(lectures timetableLectureSource, stages stageRepository, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		lectures: lectures,
		stages:   stages,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var timetableHeaders = []string{"Day", "Start", "End", "Course", "Room", "Lecturers", "Hours"}

// Export renders the stage timetable in the requested format ("csv" or "pdf").
func (s *TimetableService) Export(ctx context.Context, stageID, format string) (*ExportResult, error) {
	stage, err := s.stages.FindByID(ctx, stageID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "stage not found")
	}

	lectures, err := s.lectures.List(ctx, models.LectureFilter{StageID: stageID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stage lectures")
	}

	sortForTimetable(lectures)
	data := export.Dataset{Headers: timetableHeaders, Rows: make([]map[string]string, 0, len(lectures))}
	for i := range lectures {
		data.Rows = append(data.Rows, timetableRow(&lectures[i]))
	}

	switch strings.ToLower(format) {
	case "", "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("timetable-%s.csv", stage.Name),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(data, fmt.Sprintf("%s timetable", stage.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("timetable-%s.pdf", stage.Name),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// sortForTimetable orders lectures by weekday then start time, with
// unscheduled placeholders last.
func sortForTimetable(lectures []models.Lecture) {
	sort.SliceStable(lectures, func(i, j int) bool {
		di, dj := weekdayIndex(lectures[i].DayOfWeek), weekdayIndex(lectures[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return derefOr(lectures[i].StartTime, "~") < derefOr(lectures[j].StartTime, "~")
	})
}

func weekdayIndex(day *string) int {
	if day == nil {
		return len(models.Weekdays)
	}
	for i, d := range models.Weekdays {
		if d == *day {
			return i
		}
	}
	return len(models.Weekdays)
}

func timetableRow(lecture *models.Lecture) map[string]string {
	names := make([]string, 0, len(lecture.Lecturers))
	for _, l := range lecture.Lecturers {
		names = append(names, l.Name)
	}
	room := ""
	if lecture.Room != nil {
		room = lecture.Room.Name
	}
	hours := ""
	if lecture.HoursNumber != nil {
		hours = strconv.Itoa(*lecture.HoursNumber)
	}
	return map[string]string{
		"Day":       derefOr(lecture.DayOfWeek, ""),
		"Start":     derefOr(lecture.StartTime, ""),
		"End":       derefOr(lecture.EndTime, ""),
		"Course":    derefOr(lecture.CourseName, ""),
		"Room":      room,
		"Lecturers": strings.Join(names, ", "),
		"Hours":     hours,
	}
}

func derefOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
