package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/restobook/table-reservation/internal/booking"
	"github.com/restobook/table-reservation/internal/config"
	"github.com/restobook/table-reservation/internal/database"
	"github.com/restobook/table-reservation/internal/handler"
	"github.com/restobook/table-reservation/internal/middleware"
	"github.com/restobook/table-reservation/internal/queue"
	"github.com/restobook/table-reservation/internal/router"
	queue_publisher "github.com/restobook/table-reservation/internal/service"

	"github.com/restobook/table-reservation/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	// Repositories over the one shared pool.
	reservationRepo := repository.NewReservationRepo(db)
	tableRepo := repository.NewTableRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// Booking core: checker over the repos, service on top, events out
	// through RabbitMQ.
	checker := booking.NewChecker(reservationRepo, tableRepo, cfg.DiningMinutes)
	svc := booking.NewService(reservationRepo, checker, queue_publisher.New())

	// Background consumer mirrors confirmed/cancelled events into
	// logs/reservations.log. It reconnects on its own; a dead broker
	// only costs the log, never a booking.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	// Redis is optional: a nil client turns the rate limiter and the
	// availability cache into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterBooking(e, handler.NewBookingHandler(svc, tableRepo, customerRepo), rateLimit, cache)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo))
	router.RegisterAdmin(e, cfg.JWTSecret,
		handler.NewAdminTableHandler(tableRepo),
		handler.NewAdminReservationHandler(svc, reservationRepo),
		handler.NewAdminCustomerHandler(customerRepo),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
