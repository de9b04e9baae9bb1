package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/helpdeskhq/helpdesk-api/docs"
	"github.com/helpdeskhq/helpdesk-api/internal/api/handler"
	"github.com/helpdeskhq/helpdesk-api/internal/api/middleware"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
	"github.com/helpdeskhq/helpdesk-api/internal/core/service"
	mongodb "github.com/helpdeskhq/helpdesk-api/internal/infrastructure/db/mongo"
	redisdb "github.com/helpdeskhq/helpdesk-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered. The audit
// sink is injected so the dispatcher's lifecycle stays with main.
func NewRouter(db *mongo.Database, rdb *goredis.Client, jwtSecret string, sink ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("helpdesk"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	ticketRepo := mongodb.NewTicketRepository(db)
	responseRepo := mongodb.NewResponseRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	denylist := redisdb.NewTokenDenylist(rdb)

	// --- Services ---
	authService := service.NewAuthService(userRepo, denylist, jwtSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, log)
	ticketService := service.NewTicketService(ticketRepo, userRepo, projectRepo, auditRepo, sink, log)
	responseService := service.NewResponseService(responseRepo, ticketRepo, sink, log)
	projectService := service.NewProjectService(projectRepo, userRepo, log)
	reportService := service.NewReportService(ticketRepo, userRepo, projectRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	responseHandler := handler.NewResponseHandler(responseService)
	projectHandler := handler.NewProjectHandler(projectService)
	reportHandler := handler.NewReportHandler(reportService)

	auth := middleware.Auth(jwtSecret, denylist)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))
	responders := middleware.RBAC(string(domain.RoleAdmin), string(domain.RoleTeknis))

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, auth)
	e.GET("/auth/me", authHandler.Me, auth)
	e.PATCH("/auth/me", authHandler.PatchMe, auth)

	v1 := e.Group("/v1", auth)

	// --- Users ---
	// Record-level rules (admin-or-self patch, manager access to the teknis
	// listing) live in the service; no blanket role gate fits every route.
	v1.GET("/users", userHandler.List)
	v1.GET("/users/count", userHandler.Count)
	v1.GET("/users/teknis", userHandler.ListTeknis)
	v1.GET("/users/manager", userHandler.ListManagers)
	v1.GET("/users/:uuid", userHandler.Get)
	v1.POST("/users", userHandler.Create)
	v1.PATCH("/users/:uuid", userHandler.Patch)
	v1.DELETE("/users/:uuid", userHandler.Delete)

	// --- Tickets ---
	v1.GET("/tickets", ticketHandler.List)
	v1.GET("/tickets/stats/priority", ticketHandler.StatsPriority)
	v1.GET("/tickets/stats/assignee", ticketHandler.StatsAssignee)
	v1.GET("/tickets/:uuid", ticketHandler.Get)
	v1.POST("/tickets", ticketHandler.Create)
	v1.PATCH("/tickets/:uuid", ticketHandler.Patch)
	v1.DELETE("/tickets/:uuid", ticketHandler.Delete)
	v1.GET("/tickets/:uuid/attachment", ticketHandler.Attachment)
	v1.GET("/tickets/:uuid/events", ticketHandler.Events, adminOnly)
	v1.GET("/tickets/:uuid/response", responseHandler.GetByTicket)

	// --- Ticket responses ---
	// Only technicians and admins post or modify responses; reads follow the
	// transitive scope in the service.
	v1.GET("/ticket-responses", responseHandler.List)
	v1.GET("/ticket-responses/:uuid", responseHandler.Get)
	v1.GET("/ticket-responses/:uuid/attachment", responseHandler.Attachment)
	v1.POST("/ticket-responses", responseHandler.Create, responders)
	v1.PATCH("/ticket-responses/:uuid", responseHandler.Patch, responders)
	v1.DELETE("/ticket-responses/:uuid", responseHandler.Delete, responders)

	// --- Products/projects ---
	v1.GET("/projects", projectHandler.List)
	v1.GET("/projects/count", projectHandler.Count)
	v1.GET("/projects/:uuid", projectHandler.Get)
	v1.POST("/projects", projectHandler.Create, adminOnly)
	v1.PATCH("/projects/:uuid", projectHandler.Patch, adminOnly)
	v1.DELETE("/projects/:uuid", projectHandler.Delete, adminOnly)

	// --- Reports ---
	v1.GET("/reports", reportHandler.Export)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
