package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/planmate/planmate-backend/internal/handlers"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/middleware"
	"github.com/planmate/planmate-backend/internal/services"
)

type RouterConfig struct {
	Mode           string
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	log *logger.Logger,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	templateHandler *handlers.CampTemplateHandler,
	invitationHandler *handlers.CampInvitationHandler,
	planGroupHandler *handlers.PlanGroupHandler,
) *gin.Engine {
	if cfg.Mode == "prod" || cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", handlers.Healthcheck)
	router.POST("/api/register", authHandler.Register)
	router.POST("/api/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(authService, log))
	{
		api.POST("/refresh", authHandler.Refresh)
		api.POST("/logout", authHandler.Logout)

		api.GET("/invitations", invitationHandler.ListMine)
		api.GET("/invitations/:id", invitationHandler.Get)
		api.POST("/invitations/:id/accept", invitationHandler.Accept)
		api.POST("/invitations/:id/decline", invitationHandler.Decline)
		api.POST("/invitations/:id/cancel", invitationHandler.Cancel)
		api.POST("/invitations/:id/edit", invitationHandler.Edit)

		api.GET("/plan-groups/:id", planGroupHandler.Get)
		api.PATCH("/plan-groups/:id/status", planGroupHandler.ChangeStatus)
		api.POST("/plan-groups/:id/materialize", planGroupHandler.Materialize)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(log))
		{
			admin.POST("/camp-templates", templateHandler.Create)
			admin.GET("/camp-templates", templateHandler.List)
			admin.GET("/camp-templates/:id", templateHandler.Get)
			admin.PATCH("/camp-templates/:id", templateHandler.Update)
			admin.POST("/camp-templates/:id/archive", templateHandler.Archive)
			admin.POST("/camp-templates/:id/block-set", templateHandler.LinkBlockSet)
			admin.POST("/camp-templates/:id/invitations", templateHandler.BulkInvite)
			admin.GET("/camp-templates/:id/invitations", templateHandler.ListInvitations)

			admin.POST("/plan-groups/bulk-status", planGroupHandler.BulkChangeStatus)
			admin.POST("/plan-groups/bulk-recommend", planGroupHandler.BulkRecommendContent)
			admin.POST("/plan-groups/bulk-adjust-range", planGroupHandler.BulkAdjustContentRange)
		}
	}

	return router
}
