package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/lecture-scheduler/internal/service"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
	"github.com/campusdesk/lecture-scheduler/pkg/response"
)

// StageHandler manages stage endpoints.
type StageHandler struct {
	service   *service.StageService
	timetable *service.TimetableService
}

// NewStageHandler constructs handler.
func NewStageHandler(svc *service.StageService, timetable *service.TimetableService) *StageHandler {
	return &StageHandler{service: svc, timetable: timetable}
}

// List godoc
// @Summary List stages
// @Tags Stages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stages [get]
func (h *StageHandler) List(c *gin.Context) {
	stages, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stages, nil)
}

// Create godoc
// @Summary Create stage
// @Tags Stages
// @Accept json
// @Produce json
// @Param payload body service.CreateStageRequest true "Stage payload"
// @Success 201 {object} response.Envelope
// @Router /stages [post]
func (h *StageHandler) Create(c *gin.Context) {
	var req service.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	stage, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stage)
}

// Delete godoc
// @Summary Delete stage
// @Tags Stages
// @Produce json
// @Param id path string true "Stage ID"
// @Success 204
// @Router /stages/{id} [delete]
func (h *StageHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportTimetable godoc
// @Summary Export a stage timetable
// @Tags Stages
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Stage ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /stages/{id}/timetable/export [get]
func (h *StageHandler) ExportTimetable(c *gin.Context) {
	result, err := h.timetable.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
