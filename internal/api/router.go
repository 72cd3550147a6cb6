package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/pawmarket/marketplace-api/internal/api/handler"
	"github.com/pawmarket/marketplace-api/internal/api/middleware"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth         ports.AuthService
	Products     ports.ProductService
	Pets         ports.PetService
	Appointments ports.AppointmentService
	Users        ports.UserService

	Verifier    middleware.TokenVerifier
	Revocations ports.RevocationStore

	// Readiness checks by dependency name, e.g. "mongodb", "redis".
	Health map[string]handler.Pinger

	// Registerer and Gatherer back the HTTP metrics and /metrics. When nil a
	// private registry is used; production passes the default registry so
	// the domain metrics are exposed too.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil || gatherer == nil {
		reg := prometheus.NewRegistry()
		registerer, gatherer = reg, reg
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Products)
	petHandler := handler.NewPetHandler(deps.Pets)
	appointmentHandler := handler.NewAppointmentHandler(deps.Appointments)
	userHandler := handler.NewUserHandler(deps.Users)
	healthHandler := handler.NewHealthHandler(deps.Health)

	auth := middleware.Auth(deps.Verifier, deps.Revocations, deps.Log)
	seller := middleware.RequireRole(domain.RoleSeller)
	customer := middleware.RequireRole(domain.RoleCustomer)
	admin := middleware.RBAC(domain.RoleAdmin)

	// --- Accounts ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Products & pets (reads are public; owner checks happen in the services) ---
	e.GET("/products", productHandler.List)
	e.GET("/products/:id", productHandler.Get)
	e.POST("/products", productHandler.Create, auth, seller)
	e.PUT("/products/:id", productHandler.Update, auth)
	e.DELETE("/products/:id", productHandler.Delete, auth)

	e.GET("/pets", petHandler.List)
	e.GET("/pets/:id", petHandler.Get)
	e.POST("/pets", petHandler.Create, auth, seller)
	e.PUT("/pets/:id", petHandler.Update, auth)
	e.DELETE("/pets/:id", petHandler.Delete, auth)

	// --- Appointments ---
	e.GET("/appointments", appointmentHandler.List, auth)
	e.POST("/appointments", appointmentHandler.Book, auth, customer)
	e.GET("/appointments/:id", appointmentHandler.Get, auth)
	e.PUT("/appointments/:id", appointmentHandler.UpdateStatus, auth)
	e.DELETE("/appointments/:id", appointmentHandler.Cancel, auth)

	// --- Admin ---
	e.GET("/users", userHandler.List, auth, admin)
	e.DELETE("/users/:id", userHandler.Delete, auth, admin)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured line per request.
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
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			if claim, ok := middleware.Claims(c); ok {
				ev = ev.Str("user_id", claim.ID).Str("role", string(claim.Role))
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
