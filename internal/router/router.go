package router

import (
	"database/sql"

	"gym_admin_backend/internal/handlers"
	"gym_admin_backend/internal/middleware"
	"gym_admin_backend/internal/repositories"
	"gym_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Initialize the change notifier shared by all mutating services
	notifier := services.NewNotifier()

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	memberService := services.NewMemberService(memberRepo, attendanceRepo, paymentRepo, db, notifier)
	attendanceService := services.NewAttendanceService(memberRepo, attendanceRepo, db, notifier)
	reportService := services.NewReportService(memberRepo, attendanceRepo, paymentRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(memberService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	reportHandler := handlers.NewReportHandler(reportService)
	eventHandler := handlers.NewEventHandler(notifier)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupMemberRoutes(authenticated, memberHandler)
		SetupAttendanceRoutes(authenticated, attendanceHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupEventRoutes(authenticated, eventHandler)
	}
}

// SetupPublicAuthRoutes wires the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

// SetupAuthenticatedAuthRoutes wires the account routes behind the auth middleware.
// Registration is Admin-only: staff accounts are provisioned, not self-service.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", middleware.RoleAuthMiddleware("Admin"), authHandler.RegisterUser)
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}
