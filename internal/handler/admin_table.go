package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

// AdminTableHandler manages the floor plan. All routes sit behind JWT
// auth with the MANAGER role.
type AdminTableHandler struct {
	Tables *repository.TableRepo
}

func NewAdminTableHandler(tables *repository.TableRepo) *AdminTableHandler {
	if tables == nil {
		panic("nil repository passed to NewAdminTableHandler")
	}
	return &AdminTableHandler{Tables: tables}
}

type tableReq struct {
	Number   uint32 `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	IsActive *bool  `json:"isActive"`
}

// CreateTable handles POST /v1/tables.
func (h *AdminTableHandler) CreateTable(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Number == 0 || req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity are required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := &model.Table{Number: req.Number, Capacity: req.Capacity, Location: req.Location, IsActive: active}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	return c.JSON(http.StatusCreated, toTableResp(*t))
}

// ListTables handles GET /v1/tables. Includes deactivated tables so
// staff can re-enable them.
func (h *AdminTableHandler) ListTables(c echo.Context) error {
	tables, err := h.Tables.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tables failed"})
	}
	out := make([]echo.Map, 0, len(tables))
	for _, t := range tables {
		out = append(out, echo.Map{
			"id": t.ID, "number": t.Number, "capacity": t.Capacity,
			"location": t.Location, "isActive": t.IsActive,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateTable handles PUT /v1/tables/:id.
func (h *AdminTableHandler) UpdateTable(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Number != 0 {
		t.Number = req.Number
	}
	if req.Capacity > 0 {
		t.Capacity = req.Capacity
	}
	if req.Location != "" {
		t.Location = req.Location
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Tables.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update table failed"})
	}
	return c.JSON(http.StatusOK, toTableResp(*t))
}

// DeactivateTable handles DELETE /v1/tables/:id. Tables are never
// hard-deleted; reservations keep referencing them.
func (h *AdminTableHandler) DeactivateTable(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Tables.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate table failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
