package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restobook/table-reservation/internal/booking"
	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

// AdminReservationHandler gives staff visibility and control over the
// reservation book: list a day, inspect one, confirm, cancel.
type AdminReservationHandler struct {
	Svc          *booking.Service
	Reservations *repository.ReservationRepo
}

func NewAdminReservationHandler(svc *booking.Service, reservations *repository.ReservationRepo) *AdminReservationHandler {
	if svc == nil || reservations == nil {
		panic("nil dependency passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{Svc: svc, Reservations: reservations}
}

// ListReservations handles GET /v1/reservations?date=YYYY-MM-DD[&table_id=N].
// With table_id it returns only the active reservations for that
// table (the availability view); without it, the whole day including
// cancelled rows.
func (h *AdminReservationHandler) ListReservations(c echo.Context) error {
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()

	if tidStr := c.QueryParam("table_id"); tidStr != "" {
		tid, err := strconv.ParseUint(tidStr, 10, 64)
		if err != nil || tid == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table_id"})
		}
		list, err := h.Reservations.ActiveByTableAndDate(ctx, tid, date)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
		}
		return c.JSON(http.StatusOK, toReservationList(list))
	}

	list, err := h.Reservations.ListByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, toReservationList(list))
}

// GetReservation handles GET /v1/reservations/:id.
func (h *AdminReservationHandler) GetReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// ConfirmReservation handles POST /v1/reservations/:id/confirm. Only
// PENDING reservations can be confirmed; anything else answers 409.
func (h *AdminReservationHandler) ConfirmReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.Svc.Confirm(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm reservation failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// CancelReservation handles DELETE /v1/reservations/:id. Same soft
// cancel as the public API, exposed on the admin path shape.
func (h *AdminReservationHandler) CancelReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.Svc.Cancel(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

func toReservationList(list []model.Reservation) []reservationResp {
	out := make([]reservationResp, 0, len(list))
	for i := range list {
		out = append(out, toReservationResp(&list[i]))
	}
	return out
}
