package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/carservice/station/docs"
	"github.com/carservice/station/internal/api/handler"
	"github.com/carservice/station/internal/api/middleware"
	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
	"github.com/carservice/station/internal/core/service"
	"github.com/carservice/station/internal/infrastructure/config"
	mongorepo "github.com/carservice/station/internal/infrastructure/db/mongo"
	redisstore "github.com/carservice/station/internal/infrastructure/db/redis"
)

// BasePath prefixes every API route.
const BasePath = "/api"

// Services is everything the router dispatches to.
type Services struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Catalog  ports.CatalogService
	Bookings ports.BookingService
	Payments ports.PaymentService
	Checks   map[string]handler.Check
}

// Wire builds the services on top of MongoDB and Redis.
func Wire(db *mongo.Database, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) Services {
	seq := mongorepo.NewSequence(db)
	users := mongorepo.NewUserRepository(db, seq)
	services := mongorepo.NewServiceRepository(db, seq)
	bookings := mongorepo.NewBookingRepository(db, seq)
	ledger := redisstore.NewPaymentLedger(rdb, 0)
	orders := redisstore.NewPaymentOrders(rdb, 0)

	return Services{
		Auth:     service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, log),
		Users:    service.NewUserService(users, log),
		Catalog:  service.NewCatalogService(services, log),
		Bookings: service.NewBookingService(bookings, services, users, log),
		Payments: service.NewPaymentService(bookings, orders, ledger, cfg.Payment.KeyID, cfg.Payment.KeySecret, log),
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return db.Client().Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	}
}

// Options tunes the router. Zero Registerer and Gatherer mean the default
// Prometheus registry.
type Options struct {
	JWTSecret  string
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "station",
		Registerer: opts.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(svc.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BasePath)
	auth := middleware.Auth(opts.JWTSecret)
	admin := middleware.RBAC(domain.RoleAdmin)
	customer := middleware.RBAC(domain.RoleCustomer)
	anyone := middleware.RBAC(domain.RoleAdmin, domain.RoleCustomer)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(svc.Auth, log)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register/customer", authHandler.RegisterCustomer)

	// --- Users ---
	userHandler := handler.NewUserHandler(svc.Users)
	// Middleware is attached per route: group middleware would also guard
	// echo's catch-all and turn unknown paths into 401s.
	users := api.Group("/users")
	users.GET("/me", userHandler.Me, auth, anyone)
	users.PUT("/me/customer", userHandler.UpdateCustomer, auth, customer)
	users.PUT("/me/admin", userHandler.UpdateAdmin, auth, admin)

	// --- Catalog ---
	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	api.GET("/services", catalogHandler.List)
	api.GET("/services/:id", catalogHandler.Get, auth, anyone)
	api.POST("/services", catalogHandler.Create, auth, admin)
	api.PUT("/services/:id", catalogHandler.Update, auth, admin)
	api.DELETE("/services/:id", catalogHandler.Delete, auth, admin)

	// --- Bookings ---
	bookingHandler := handler.NewBookingHandler(svc.Bookings)
	bookings := api.Group("/bookings")
	bookings.POST("", bookingHandler.Create, auth, customer)
	bookings.GET("", bookingHandler.List, auth, admin)
	bookings.GET("/my-bookings", bookingHandler.Mine, auth, customer)
	bookings.GET("/stats", bookingHandler.Stats, auth, admin)
	bookings.POST("/feedback", bookingHandler.Feedback, auth, customer)
	bookings.GET("/:id", bookingHandler.Get, auth, anyone)
	bookings.PUT("/:id/status", bookingHandler.UpdateStatus, auth, admin)
	bookings.DELETE("/:id", bookingHandler.Delete, auth, admin)

	// --- Payments ---
	paymentHandler := handler.NewPaymentHandler(svc.Payments, log)
	payments := api.Group("/payments")
	payments.POST("/create-order", paymentHandler.CreateOrder, auth, customer)
	payments.POST("/verify-payment", paymentHandler.Verify, auth, customer)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
