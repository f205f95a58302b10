package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/api/handler"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/api/middleware"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/jwt"
)

// Setup builds the Gin engine with all routes wired.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── Health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// Authentication (no token required)
		v1.POST("/auth/login", h.Auth.Login)

		// Token-protected routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			// Punch ingestion and audit
			punches := authorized.Group("/punches")
			{
				punches.POST("", h.Punch.Record)
				punches.GET("", h.Punch.List)
			}

			// Shift planning
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", h.Shift.List)
				shifts.GET("/:id", h.Shift.Get)
				shifts.POST("", middleware.RoleAuth("admin", "manager"), h.Shift.Create)
				shifts.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Shift.Replan)
				shifts.POST("/:id/close", middleware.RoleAuth("admin"), h.Shift.ClosePayroll)
			}

			// Anomaly review feed
			authorized.GET("/anomalies", middleware.RoleAuth("admin", "manager"), h.Anomaly.List)

			// Manual reconciliation sweep
			authorized.POST("/reconcile/sweep", middleware.RoleAuth("admin"), h.Reconcile.Sweep)

			// Reports
			authorized.GET("/reports/attendance", middleware.RoleAuth("admin", "manager"), h.Report.Attendance)

			// File exports
			exports := authorized.Group("/exports")
			exports.Use(middleware.RoleAuth("admin", "manager"))
			{
				exports.GET("/anomalies.xlsx", h.Export.Anomalies)
				exports.GET("/shifts.ics", h.Export.ShiftCalendar)
			}
		}
	}

	return r
}
