package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/wilsy/service-tracker/internal/api/handler"
	"github.com/wilsy/service-tracker/internal/api/middleware"
	"github.com/wilsy/service-tracker/internal/core/authz"
	"github.com/wilsy/service-tracker/internal/core/ports"
	"github.com/wilsy/service-tracker/internal/infrastructure/http/handlers"
)

// Services are the use cases the router exposes.
type Services struct {
	Tokens       ports.TokenService
	Auth         ports.AuthService
	Users        ports.UserService
	Documents    ports.DocumentService
	Instructions ports.InstructionService
	Clients      ports.ClientService
	Deputies     ports.DeputyService
	Assignments  ports.AssignmentService
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every row of authz.Routes must have a handler; a missing one is a
// programming error and panics at startup.
func NewRouter(svc Services, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(httpMetrics())

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(svc.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes, driven by the access table ---
	routes := handlerTable(svc)
	auth := middleware.Auth(svc.Tokens)
	for _, r := range authz.Routes {
		h, ok := routes[r.Key()]
		if !ok {
			panic(fmt.Sprintf("router: no handler for %s", r.Key()))
		}
		if r.Public {
			e.Add(r.Method, r.Path, h)
			continue
		}
		e.Add(r.Method, r.Path, h, auth, middleware.RBAC(r.Allow))
	}

	return e
}

var (
	httpMetricsOnce sync.Once
	httpMetricsMW   echo.MiddlewareFunc
)

// httpMetrics registers the request collectors with the default registry
// once per process, so several routers can share them.
func httpMetrics() echo.MiddlewareFunc {
	httpMetricsOnce.Do(func() {
		httpMetricsMW = echoprometheus.NewMiddleware("service_tracker")
	})
	return httpMetricsMW
}

func handlerTable(svc Services) map[string]echo.HandlerFunc {
	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	documentHandler := handler.NewDocumentHandler(svc.Documents)
	instructionHandler := handler.NewInstructionHandler(svc.Instructions)
	clientHandler := handler.NewClientHandler(svc.Clients)
	deputyHandler := handler.NewDeputyHandler(svc.Deputies, svc.Assignments)

	return map[string]echo.HandlerFunc{
		"POST /auth/register": authHandler.Register,
		"POST /auth/login":    authHandler.Login,

		"GET /documents":                   documentHandler.List,
		"POST /documents":                  documentHandler.Create,
		"GET /documents/:id":               documentHandler.Get,
		"PUT /documents/:id":               documentHandler.Update,
		"DELETE /documents/:id":            documentHandler.Delete,
		"POST /documents/:id/attempts":     documentHandler.AppendAttempt,
		"POST /documents/:id/attachments":  documentHandler.UploadAttachment,
		"GET /documents/:id/attachments/*": documentHandler.DownloadAttachment,

		"GET /instructions":        instructionHandler.List,
		"GET /instructions/:id":    instructionHandler.Get,
		"POST /instructions":       instructionHandler.Create,
		"PUT /instructions/:id":    instructionHandler.Update,
		"DELETE /instructions/:id": instructionHandler.Delete,

		"GET /users/profile/:role/:id": userHandler.GetProfile,
		"PUT /users/:id":               userHandler.UpdateProfile,
		"GET /users":                   userHandler.ListUsers,
		"POST /users":                  userHandler.CreateUser,
		"DELETE /users/:id":            userHandler.DeleteUser,

		"GET /clients":     clientHandler.List,
		"POST /clients":    clientHandler.Create,
		"GET /clients/:id": clientHandler.Get,

		"GET /deputies":              deputyHandler.List,
		"POST /deputies":             deputyHandler.Create,
		"GET /deputies/:id":          deputyHandler.Get,
		"POST /deputies/:id/reindex": deputyHandler.Reindex,
	}
}

// requestLogger writes one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
