package balance

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-leavehub/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	balances.Use(middleware.ContextLogger(zap.L()))
	{
		balances.GET("", handler.GetForEmployee)
	}
}
