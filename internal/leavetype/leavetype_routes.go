package leavetype

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-leavehub/internal/domain"
	"go-leavehub/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	types.Use(middleware.ContextLogger(zap.L()))
	{
		types.GET("", handler.List)
		types.GET("/:id", handler.GetById)

		adminOnly := middleware.RequireRole(domain.RoleAdmin, domain.RoleOwner)
		types.POST("", adminOnly, handler.Create)
		types.PUT("/:id", adminOnly, handler.Update)
		types.DELETE("/:id", adminOnly, handler.Delete)
	}
}
