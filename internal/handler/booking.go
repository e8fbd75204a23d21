package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restobook/table-reservation/internal/booking"
	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

// TableStore is the slice of the table repository the public API
// needs: existence checks before booking.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
}

// CustomerStore upserts the guest record attached to a booking.
type CustomerStore interface {
	UpsertByPhone(ctx context.Context, name, phone, email string) (*model.Customer, error)
}

// BookingHandler serves the public booking API: availability lookups
// and reservation create/update/cancel. No authentication; guests
// identify themselves by name and phone in the request body.
type BookingHandler struct {
	Svc       *booking.Service
	Tables    TableStore
	Customers CustomerStore
}

// NewBookingHandler constructs a BookingHandler. Customers may be
// nil; the guest upsert is then skipped.
func NewBookingHandler(svc *booking.Service, tables TableStore, customers CustomerStore) *BookingHandler {
	if svc == nil || tables == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Tables: tables, Customers: customers}
}

// ----- DTOs -----

type reservationReq struct {
	ID            uint64 `json:"id"` // PUT only
	TableID       uint64 `json:"tableId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Email         string `json:"email"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	GuestCount    int    `json:"guestCount"`
	Notes         string `json:"notes"`
}

type reservationResp struct {
	ID           uint64 `json:"id"`
	Ref          string `json:"ref"`
	TableID      uint64 `json:"tableId"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	GuestCount   int    `json:"guestCount"`
	Status       string `json:"status"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type tableResp struct {
	ID       uint64 `json:"id"`
	Number   uint32 `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location,omitempty"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:           r.ID,
		Ref:          r.Ref,
		TableID:      r.TableID,
		Date:         r.Date,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		GuestCount:   r.GuestCount,
		Status:       r.Status,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Email:        r.Email,
		Notes:        r.Notes,
	}
}

func toTableResp(t model.Table) tableResp {
	return tableResp{ID: t.ID, Number: t.Number, Capacity: t.Capacity, Location: t.Location}
}

// validate rejects malformed bookings at the boundary so the
// availability checker only ever sees well-formed input.
func (req *reservationReq) validate() string {
	if req.TableID == 0 {
		return "tableId is required"
	}
	if req.CustomerName == "" {
		return "customerName is required"
	}
	if req.CustomerPhone == "" {
		return "customerPhone is required"
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if _, err := booking.ParseClock(req.StartTime); err != nil {
		return "startTime must be HH:MM"
	}
	if _, err := booking.ParseClock(req.EndTime); err != nil {
		return "endTime must be HH:MM"
	}
	if req.StartTime == req.EndTime {
		return "reservation window is empty"
	}
	if req.GuestCount <= 0 {
		return "guestCount must be positive"
	}
	return ""
}

// AvailableTables handles GET /api/tables/available?date=YYYY-MM-DD&time=HH:MM&guests=N.
// It returns the active tables that seat the party and are free for a
// default-length sitting anchored at the given time, ordered by table
// number.
func (h *BookingHandler) AvailableTables(c echo.Context) error {
	date := c.QueryParam("date")
	at := c.QueryParam("time")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if _, err := booking.ParseClock(at); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
	}
	guests, err := strconv.Atoi(c.QueryParam("guests"))
	if err != nil || guests <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be a positive integer"})
	}

	free, err := h.Svc.Checker().AvailableTables(c.Request().Context(), date, at, guests)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	out := make([]tableResp, 0, len(free))
	for _, t := range free {
		out = append(out, toTableResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateReservation handles POST /api/reservations. On success it
// answers 201 with the stored reservation; an occupied slot answers
// 409 {"error":"conflict"} so clients can offer the guest another
// time.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	if err := h.requireBookableTable(ctx, req.TableID); err != nil {
		return writeTableError(c, err)
	}

	res := &model.Reservation{
		TableID:      req.TableID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		GuestCount:   req.GuestCount,
		CustomerName: req.CustomerName,
		Phone:        req.CustomerPhone,
		Email:        req.Email,
		Notes:        req.Notes,
	}
	if h.Customers != nil {
		if cust, err := h.Customers.UpsertByPhone(ctx, req.CustomerName, req.CustomerPhone, req.Email); err == nil {
			res.CustomerID = &cust.ID
		}
		// A failed upsert only loses the dashboard link; the booking proceeds.
	}

	if err := h.Svc.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// UpdateReservation handles PUT /api/reservations. The body carries
// the reservation id plus the full set of mutable fields. The slot is
// re-validated with the reservation's own id excluded so it cannot
// conflict with itself.
func (h *BookingHandler) UpdateReservation(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id is required"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	if err := h.requireBookableTable(ctx, req.TableID); err != nil {
		return writeTableError(c, err)
	}
	updated, err := h.Svc.Update(ctx, &model.Reservation{
		ID:           req.ID,
		TableID:      req.TableID,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		GuestCount:   req.GuestCount,
		CustomerName: req.CustomerName,
		Phone:        req.CustomerPhone,
		Email:        req.Email,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(updated))
}

// requireBookableTable verifies the table exists and is still active.
// Deactivated tables are soft-deleted from the floor plan, so guests
// get the same answer as for a table that never existed.
func (h *BookingHandler) requireBookableTable(ctx context.Context, tableID uint64) error {
	t, err := h.Tables.GetByID(ctx, tableID)
	if err != nil {
		return err
	}
	if !t.IsActive {
		return repository.ErrTableNotFound
	}
	return nil
}

func writeTableError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrTableNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// CancelReservation handles DELETE /api/reservations?id=N. The row is
// soft-deleted: status moves to CANCELLED and the slot frees up, but
// the record stays for the dashboard.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.QueryParam("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	cancelled, err := h.Svc.Cancel(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
	}
	return c.JSON(http.StatusOK, toReservationResp(cancelled))
}
