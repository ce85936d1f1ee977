package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc        ports.WalletService
	LedgerSvc        ports.LedgerService
	HealthCheckers   []ports.HealthChecker
	DefaultPageLimit int
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	walletHandler := NewWalletHandler(deps.WalletSvc)
	txHandler := NewTransactionHandler(deps.LedgerSvc, deps.DefaultPageLimit)

	v1 := r.Group("/api/v1")

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.Create)
		wallets.GET("", walletHandler.List)
		wallets.GET("/:id", walletHandler.Get)
		wallets.PUT("/:id/status", walletHandler.UpdateStatus)
		wallets.DELETE("/:id", walletHandler.Delete)

		wallets.POST("/:id/transactions", txHandler.Transact)
		wallets.GET("/:id/transactions", txHandler.List)
		wallets.GET("/:id/transactions/export", txHandler.Export)
		wallets.DELETE("/:id/transactions", txHandler.DeleteAll)
	}

	transactions := v1.Group("/transactions")
	{
		transactions.DELETE("/:id", txHandler.DeleteOne)
	}

	return r
}
