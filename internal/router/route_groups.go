package router

import (
	"gym_admin_backend/internal/handlers"
	"gym_admin_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMemberRoutes sets up member CRUD and lifecycle transition routes.
// Permanent deletion is Admin-only; everything else is desk work.
func SetupMemberRoutes(authenticatedGroup *gin.RouterGroup, memberHandler *handlers.MemberHandler) {
	memberRoutes := authenticatedGroup.Group("/members")
	memberRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		memberRoutes.POST("", memberHandler.CreateMember)
		memberRoutes.GET("", memberHandler.GetMembers)
		memberRoutes.GET("/:id", memberHandler.GetMemberByID)
		memberRoutes.PUT("/:id", memberHandler.UpdateMember)

		memberRoutes.POST("/:id/renew", memberHandler.MarkAsPaid)
		memberRoutes.POST("/:id/freeze", memberHandler.Freeze)
		memberRoutes.POST("/:id/unfreeze", memberHandler.Unfreeze)
		memberRoutes.POST("/:id/dormant", memberHandler.MarkDormant)
		memberRoutes.POST("/:id/activate", memberHandler.Activate)
		memberRoutes.DELETE("/:id", memberHandler.SoftDelete)
		memberRoutes.POST("/:id/restore", memberHandler.Restore)
	}

	authenticatedGroup.DELETE("/members/:id/permanent",
		middleware.RoleAuthMiddleware("Admin"), memberHandler.PermanentlyDelete)
}

// SetupAttendanceRoutes sets up check-in and attendance sheet routes.
func SetupAttendanceRoutes(authenticatedGroup *gin.RouterGroup, attendanceHandler *handlers.AttendanceHandler) {
	attendanceRoutes := authenticatedGroup.Group("/attendance")
	attendanceRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		attendanceRoutes.POST("/check-in/:id", attendanceHandler.CheckIn)
		attendanceRoutes.GET("", attendanceHandler.GetSheet)
		attendanceRoutes.GET("/member/:id", attendanceHandler.GetMemberHistory)
		attendanceRoutes.GET("/today/count", attendanceHandler.CountToday)
	}
}

// SetupReportRoutes sets up payment ledger and report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("")
	reportRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		reportRoutes.GET("/payments", reportHandler.GetPayments)
		reportRoutes.GET("/reports/revenue", reportHandler.GetMonthlyRevenue)
		reportRoutes.GET("/reports/dues", reportHandler.GetDueReport)
		reportRoutes.GET("/reports/categories", reportHandler.GetCategoryCounts)
		reportRoutes.GET("/dashboard", reportHandler.GetDashboardSummary)
	}
}

// SetupEventRoutes sets up the change notification stream.
func SetupEventRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler) {
	authenticatedGroup.GET("/events/stream",
		middleware.RoleAuthMiddleware("Admin", "Staff"), eventHandler.Stream)
}
