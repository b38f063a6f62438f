package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/infrastructure/auth"
	"github.com/bizfin/backend/internal/interfaces/http/handler"
	"github.com/bizfin/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers the router wires up
type Handlers struct {
	Auth     *handler.AuthHandler
	Business *handler.BusinessHandler
	Goal     *handler.GoalHandler
	Supplier *handler.SupplierHandler
	Invoice  *handler.InvoiceHandler
	Payment  *handler.PaymentHandler
	Daily    *handler.DailyHandler
	Upload   *handler.UploadHandler
	Changes  *handler.ChangesHandler
	System   *handler.SystemHandler
}

// Config holds the dependencies needed to build the route tree
type Config struct {
	Handlers Handlers

	JWTService   *auth.JWTService
	Blacklist    auth.TokenBlacklist
	BusinessRepo business.BusinessRepository
	Logger       *zap.Logger

	// AuthLimiter, when set, applies a stricter rate limit to
	// credential endpoints
	AuthLimiter *middleware.RateLimiter
}

// Setup registers all API routes on the engine.
//
// Layout:
//
//	/health, /api/v1/system/*          public
//	/api/v1/auth/{register,login,...}  public credential endpoints
//	/api/v1/auth/*                     authenticated session endpoints
//	/api/v1/businesses                 authenticated, owner-scoped
//	/api/v1/businesses/:businessID/*   authenticated + ownership check
func Setup(engine *gin.Engine, cfg Config) {
	h := cfg.Handlers

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.GET("/system/info", h.System.Info)

	authn := middleware.Auth(middleware.AuthConfig{
		JWTService: cfg.JWTService,
		Blacklist:  cfg.Blacklist,
		Logger:     cfg.Logger,
	})
	businessAccess := middleware.BusinessAccess(cfg.BusinessRepo)

	// Credential endpoints stay public; a dedicated limiter slows
	// brute-force attempts when configured
	public := api.Group("/auth")
	if cfg.AuthLimiter != nil {
		public.Use(middleware.RateLimit(cfg.AuthLimiter))
	}
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/refresh", h.Auth.Refresh)

	session := api.Group("/auth")
	session.Use(authn)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/me", h.Auth.UpdateProfile)
	session.PUT("/me/password", h.Auth.ChangePassword)
	session.PUT("/me/default-business", h.Auth.SetDefaultBusiness)

	businesses := api.Group("/businesses")
	businesses.Use(authn)
	businesses.POST("", h.Business.Create)
	businesses.GET("", h.Business.List)

	// Everything below is scoped to one business and requires ownership
	scoped := businesses.Group("/:businessID")
	scoped.Use(businessAccess)

	scoped.GET("", h.Business.Get)
	scoped.PUT("", h.Business.Update)
	scoped.PUT("/settings", h.Business.UpdateSettings)
	scoped.DELETE("", h.Business.Deactivate)
	scoped.GET("/schedule", h.Business.GetSchedule)
	scoped.PUT("/schedule", h.Business.UpsertSchedule)

	scoped.PUT("/goals", h.Goal.Upsert)
	scoped.GET("/goals", h.Goal.List)
	scoped.GET("/goals/:month", h.Goal.Get)
	scoped.DELETE("/goals/:id", h.Goal.Delete)
	scoped.GET("/dashboard/:month", h.Goal.Dashboard)

	scoped.POST("/suppliers", h.Supplier.Create)
	scoped.GET("/suppliers", h.Supplier.List)
	scoped.GET("/suppliers/:id", h.Supplier.Get)
	scoped.PUT("/suppliers/:id", h.Supplier.Update)
	scoped.POST("/suppliers/:id/activate", h.Supplier.Activate)
	scoped.POST("/suppliers/:id/deactivate", h.Supplier.Deactivate)
	scoped.GET("/suppliers/:id/invoices", h.Invoice.ListBySupplier)
	scoped.GET("/suppliers/:id/payments", h.Payment.ListBySupplier)

	scoped.POST("/invoices", h.Invoice.Create)
	scoped.GET("/invoices", h.Invoice.List)
	scoped.GET("/invoices/:id", h.Invoice.Get)
	scoped.PUT("/invoices/:id/amounts", h.Invoice.UpdateAmounts)
	scoped.PUT("/invoices/:id/file", h.Invoice.AttachFile)
	scoped.POST("/invoices/:id/paid", h.Invoice.MarkPaid)
	scoped.POST("/invoices/:id/reopen", h.Invoice.Reopen)
	scoped.POST("/invoices/:id/cancel", h.Invoice.Cancel)

	scoped.POST("/payments", h.Payment.Create)
	scoped.GET("/payments", h.Payment.List)
	scoped.GET("/payments/forecast", h.Payment.Forecast)
	scoped.GET("/payments/:id", h.Payment.Get)
	scoped.PUT("/payments/:id/schedule", h.Payment.Reschedule)
	scoped.DELETE("/payments/:id", h.Payment.Delete)
	scoped.POST("/payment-splits/:id/paid", h.Payment.MarkSplitPaid)
	scoped.POST("/payment-splits/:id/unpaid", h.Payment.MarkSplitUnpaid)

	scoped.PUT("/daily-entries", h.Daily.UpsertEntry)
	scoped.GET("/daily-entries", h.Daily.ListEntries)
	scoped.GET("/daily-entries/:date", h.Daily.GetEntry)
	scoped.DELETE("/daily-entries/:id", h.Daily.DeleteEntry)

	scoped.POST("/income-sources", h.Daily.CreateIncomeSource)
	scoped.GET("/income-sources", h.Daily.ListIncomeSources)
	scoped.PUT("/income-sources/:id", h.Daily.UpdateIncomeSource)
	scoped.DELETE("/income-sources/:id", h.Daily.DeactivateIncomeSource)

	scoped.POST("/managed-products", h.Daily.CreateManagedProduct)
	scoped.GET("/managed-products", h.Daily.ListManagedProducts)
	scoped.PUT("/managed-products/:id", h.Daily.UpdateManagedProduct)
	scoped.DELETE("/managed-products/:id", h.Daily.DeactivateManagedProduct)

	if h.Upload != nil {
		scoped.POST("/uploads", h.Upload.UploadFile)
		scoped.POST("/uploads/presign", h.Upload.CreateUploadURL)
		scoped.POST("/uploads/confirm", h.Upload.ConfirmUpload)
		scoped.GET("/uploads/download", h.Upload.GetDownloadURL)
		scoped.DELETE("/uploads", h.Upload.DeleteFile)
	}

	if h.Changes != nil {
		scoped.GET("/changes", h.Changes.Stream)
	}
}
