package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/restobook/table-reservation/internal/handler"
	"github.com/restobook/table-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the public booking API under /api. These
// are the guest-facing endpoints: no JWT, but rate limited, and the
// read-heavy availability lookup sits behind the response cache.
// Either middleware may be nil (Redis unavailable), in which case it
// is simply skipped.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, rateLimit, cache echo.MiddlewareFunc) {
	g := e.Group("/api")
	if rateLimit != nil {
		g.Use(rateLimit)
	}

	// Availability lookup: capacity- and conflict-filtered free tables.
	if cache != nil {
		g.GET("/tables/available", b.AvailableTables, cache)
	} else {
		g.GET("/tables/available", b.AvailableTables)
	}

	// Reservation lifecycle. The collection path carries the id in the
	// body (PUT) or query string (DELETE); this mirrors the booking
	// widget the API was built for.
	g.POST("/reservations", b.CreateReservation)
	g.PUT("/reservations", b.UpdateReservation)
	g.DELETE("/reservations", b.CancelReservation)
}

// RegisterAuth registers staff authentication under /v1/auth. The
// register endpoint is open so a fresh deployment can create its
// first manager; production deployments are expected to fence it off
// at the proxy.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
}

// RegisterAdmin registers the staff dashboard API under /v1. All
// routes require a valid access token; floor-plan changes are
// restricted to managers, while hosts can work the reservation book
// and the guest list.
func RegisterAdmin(e *echo.Echo, jwtSecret string,
	tables *handler.AdminTableHandler,
	reservations *handler.AdminReservationHandler,
	customers *handler.AdminCustomerHandler,
) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	staff := v1.Group("", middleware.RequireRole("MANAGER", "HOST"))
	staff.GET("/reservations", reservations.ListReservations)
	staff.GET("/reservations/:id", reservations.GetReservation)
	staff.POST("/reservations/:id/confirm", reservations.ConfirmReservation)
	staff.DELETE("/reservations/:id", reservations.CancelReservation)
	staff.GET("/customers", customers.ListCustomers)
	staff.GET("/customers/:id", customers.GetCustomer)
	staff.GET("/tables", tables.ListTables)

	managers := v1.Group("", middleware.RequireRole("MANAGER"))
	managers.POST("/tables", tables.CreateTable)
	managers.PUT("/tables/:id", tables.UpdateTable)
	managers.DELETE("/tables/:id", tables.DeactivateTable)
}
