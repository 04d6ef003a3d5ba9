package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	"github.com/campusdesk/lecture-scheduler/internal/service"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
	"github.com/campusdesk/lecture-scheduler/pkg/response"
)

// LectureHandler manages lecture endpoints.
type LectureHandler struct {
	service *service.LectureService
}

// NewLectureHandler constructs handler.
func NewLectureHandler(svc *service.LectureService) *LectureHandler {
	return &LectureHandler{service: svc}
}

// List godoc
// @Summary List lectures
// @Tags Lectures
// @Produce json
// @Param stage_id query string false "Filter by stage"
// @Param start_date query string false "Creation window start (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "Creation window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /lectures [get]
func (h *LectureHandler) List(c *gin.Context) {
	var filter models.LectureFilter
	filter.StageID = c.Query("stage_id")

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid start_date"))
			return
		}
		filter.CreatedFrom = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid end_date"))
			return
		}
		filter.CreatedTo = &t
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, nil)
}

// Create godoc
// @Summary Create lecture
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body service.LectureRequest true "Lecture payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Conflicts detected"
// @Router /lectures [post]
func (h *LectureHandler) Create(c *gin.Context) {
	var req service.LectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lecture, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondLectureError(c, err)
		return
	}
	response.Created(c, lecture)
}

// Update godoc
// @Summary Update lecture
// @Tags Lectures
// @Accept json
// @Produce json
// @Param id path string true "Lecture ID"
// @Param payload body service.LectureRequest true "Lecture payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Conflicts detected"
// @Router /lectures/{id} [put]
func (h *LectureHandler) Update(c *gin.Context) {
	var req service.LectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lecture, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondLectureError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecture, nil)
}

// Delete godoc
// @Summary Delete lecture
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 204
// @Router /lectures/{id} [delete]
func (h *LectureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// respondLectureError itemises conflicts on 409 and falls back to the
// standard error envelope otherwise.
func respondLectureError(c *gin.Context, err error) {
	var conflictErr *models.ConflictError
	if errors.As(err, &conflictErr) {
		response.ConflictList(c, conflictErr.Message, conflictErr.Conflicts)
		return
	}
	response.Error(c, err)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
