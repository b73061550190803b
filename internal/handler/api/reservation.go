package api

import (
	"errors"
	"net/http"
	"strconv"

	"rsvp-service/internal/domain/reservation"
	reqdto "rsvp-service/internal/handler/dto/request"
	resdto "rsvp-service/internal/handler/dto/response"
	"rsvp-service/internal/handler/httperr"
	"rsvp-service/internal/pkg/errs"
	"rsvp-service/internal/usecase/commands"
	"rsvp-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrys queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrys,
	}
}

// @Summary Create reservation
// @Description Reserve a resource for a half-open time span
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.commands.Reserve(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidTimeSpan):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time span", nil)
		case errors.Is(err, errs.ErrReservationConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Time span overlaps an existing reservation", nil)
		case errors.Is(err, errs.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Search reservations
// @Description List reservations filtered by resource, user, status and time window
// @Tags reservations
// @Produce json
// @Param resource_id query string false "Resource ID"
// @Param user_id query string false "User ID"
// @Param status query string false "Status"
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) Search(c *gin.Context) {
	var q reqdto.SearchReservationsQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters", nil)
		return
	}

	filter, err := h.buildFilter(q)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	views, err := h.queries.Search(c.Request.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidTimeSpan), errors.Is(err, errs.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid filter", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Change reservation status
// @Description Apply a status transition (pending to confirmed, pending to cancelled, confirmed to cancelled)
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body reqdto.ChangeStatusRequest true "Target status"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/status [patch]
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.ChangeStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.commands.ChangeStatus(c.Request.Context(), id, reservation.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, errs.ErrInvalidTransition):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Status transition not allowed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Update reservation note
// @Description Replace the free-form note on a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body reqdto.UpdateNoteRequest true "New note"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/note [patch]
func (h *ReservationHandler) UpdateNote(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateNoteRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.commands.UpdateNote(c.Request.Context(), id, req.Note)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Delete reservation
// @Description Remove a reservation regardless of its status
// @Tags reservations
// @Param id path int true "Reservation ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.commands.Delete(c.Request.Context(), id); err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("invalid id"), "Invalid reservation ID format", nil)
		return 0, false
	}
	return id, true
}

func (h *ReservationHandler) respondLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *ReservationHandler) buildFilter(q reqdto.SearchReservationsQuery) (queries.SearchFilter, error) {
	filter := queries.SearchFilter{
		ResourceID: q.ResourceID,
		UserID:     q.UserID,
	}

	if q.Status != nil {
		status, err := reservation.ParseStatus(*q.Status)
		if err != nil {
			return queries.SearchFilter{}, errors.New("unknown status filter")
		}
		filter.Status = &status
	}

	if (q.From == nil) != (q.To == nil) {
		return queries.SearchFilter{}, errors.New("time window requires both from and to")
	}
	if q.From != nil && q.To != nil {
		filter.Window = &queries.TimeWindow{From: *q.From, To: *q.To}
	}

	return filter, nil
}
