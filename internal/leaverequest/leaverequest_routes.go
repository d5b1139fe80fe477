package leaverequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-leavehub/internal/domain"
	"go-leavehub/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	requests.Use(middleware.ContextLogger(zap.L()))
	{
		requests.GET("", handler.GetAll)
		requests.GET("/:id", handler.GetById)

		requests.POST("",
			middleware.RateLimitByActor(rate.Limit(1), 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)

		requests.POST("/:id/review",
			middleware.RequireRole(domain.RoleManager, domain.RoleAdmin, domain.RoleOwner),
			handler.Review,
		)
	}
}
