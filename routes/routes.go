package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
	"github.com/Mo7amed-Boukab/eventia-backend/database"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/auditlog"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/auth"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/notification"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reports"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reservation"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/ticket"
	"github.com/Mo7amed-Boukab/eventia-backend/middleware"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config, eventCache *event.Cache, notificationSvc notification.Service) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.RequestID())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo, eventCache, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	// ========== Notifications ==========
	notificationHandler := notification.NewHandler(notificationSvc)

	// ========== Reservations ==========
	reservationRepo := reservation.NewRepository(database.DB)
	reservationSvc := reservation.NewService(
		reservationRepo,
		eventRepo,
		authRepo,
		ticket.NewIssuer(),
		notificationSvc,
		auditSvc,
		eventCache,
	)
	reservationHandler := reservation.NewHandler(reservationSvc)

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(database.DB)
	reportsSvc := reports.NewService(reportsRepo, eventRepo, reservationRepo)
	reportsHandler := reports.NewHandler(reportsSvc)

	// Public catalog
	api.GET("/events", eventHandler.ListPublished)
	api.GET("/events/:id", eventHandler.GetEventByID)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// Event management
	eventRoutes := protected.Group("/events")
	eventRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		eventRoutes.POST("", eventHandler.CreateEvent)
		eventRoutes.PUT("/:id", eventHandler.UpdateEvent)
		eventRoutes.PATCH("/:id/status", eventHandler.UpdateStatus)
	}

	// Reservations
	reservationRoutes := protected.Group("/reservations")
	{
		reservationRoutes.POST("", middleware.RBACMiddleware(auth.RoleParticipant), reservationHandler.CreateReservation)
		reservationRoutes.GET("/me", reservationHandler.ListMyReservations)
		reservationRoutes.GET("/:id/ticket", reservationHandler.GetTicket)
		reservationRoutes.DELETE("/:id", reservationHandler.CancelMyReservation)

		reservationRoutes.GET("", middleware.RBACMiddleware(auth.RoleAdmin), reservationHandler.ListReservations)
		reservationRoutes.PATCH("/:id/confirm", middleware.RBACMiddleware(auth.RoleAdmin), reservationHandler.ConfirmReservation)
		reservationRoutes.PATCH("/:id/reject", middleware.RBACMiddleware(auth.RoleAdmin), reservationHandler.RejectReservation)
		reservationRoutes.PATCH("/:id/cancel", middleware.RBACMiddleware(auth.RoleAdmin), reservationHandler.CancelReservation)
	}

	// Notifications
	protected.GET("/notifications/me", notificationHandler.ListMyNotifications)

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		adminRoutes.GET("/events", eventHandler.ListAll)
		adminRoutes.GET("/stats", reportsHandler.GetDashboardStats)
		adminRoutes.GET("/reports/reservations", reportsHandler.ExportReservations)

		adminRoutes.GET("/auditlogs", auditHandler.GetAuditLogs)
		adminRoutes.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)
	}
}
