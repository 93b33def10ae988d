package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"finhealth/internal/auth"
	"finhealth/internal/config"
	apperrors "finhealth/internal/errors"
	"finhealth/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gateway echo.MiddlewareFunc,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
	transactionHandler *handler.TransactionHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = apperrors.NewHTTPErrorHandler(cfg.IsDevelopment())

	e.GET("/healthz", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: the gateway verifies the bearer token and attaches
	// the resolved user to the request context.
	secured := api.Group("", gateway)

	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/dashboard", dashboardHandler.Summary)
	secured.GET("/transactions", transactionHandler.List)
	secured.POST("/transactions", transactionHandler.Create)
	secured.PUT("/transactions/:id", transactionHandler.Update)
	secured.DELETE("/transactions/:id", transactionHandler.Delete)
}

// Gateway builds the auth middleware used by Register. Split out so main
// can construct it with its own dependencies.
func Gateway(tokens *auth.JWTService, users auth.UserResolver) echo.MiddlewareFunc {
	return auth.Middleware(tokens, users)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
