package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

// AdminCustomerHandler exposes the guest book to staff.
type AdminCustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewAdminCustomerHandler(customers *repository.CustomerRepo) *AdminCustomerHandler {
	if customers == nil {
		panic("nil repository passed to NewAdminCustomerHandler")
	}
	return &AdminCustomerHandler{Customers: customers}
}

func toCustomerResp(c *model.Customer) echo.Map {
	return echo.Map{"id": c.ID, "name": c.Name, "phone": c.Phone, "email": c.Email}
}

// ListCustomers handles GET /v1/customers.
func (h *AdminCustomerHandler) ListCustomers(c echo.Context) error {
	list, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list customers failed"})
	}
	out := make([]echo.Map, 0, len(list))
	for i := range list {
		out = append(out, toCustomerResp(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetCustomer handles GET /v1/customers/:id.
func (h *AdminCustomerHandler) GetCustomer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toCustomerResp(cust))
}
