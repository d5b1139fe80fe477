package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-leavehub/internal/audit"
	"go-leavehub/internal/balance"
	"go-leavehub/internal/employee"
	"go-leavehub/internal/leaverequest"
	"go-leavehub/internal/leavetype"
	"go-leavehub/internal/messaging/kafka"
	"go-leavehub/internal/middleware"
	"go-leavehub/internal/notify"
	"go-leavehub/internal/shared/counter"

	"golang.org/x/time/rate"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	balanceRepo := balance.NewRepository(gormDB, db)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB, db)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Sinks ---
	auditSink := audit.NewZapSink()
	notifySink := notify.NewOutboxSink(outboxRepo)

	// --- Services ---
	ledger := balance.NewLedger(balanceRepo)
	balanceService := balance.NewService(balanceRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	leaveRequestService := leaverequest.NewService(
		db,
		leaveRequestRepo,
		employeeRepo,
		leaveTypeRepo,
		ledger,
		counterRepo,
		auditSink,
		notifySink,
	)

	// --- Handlers ---
	balanceHandler := balance.NewHandler(balanceService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveRequestHandler := leaverequest.NewHandlerWithRedis(leaveRequestService, rdb)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		balance.RegisterRoutes(api, balanceHandler)
		leavetype.RegisterRoutes(api, leaveTypeHandler)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rdb)
	}

	return nil
}
