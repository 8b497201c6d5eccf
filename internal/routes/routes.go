package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/assistant"
	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/handlers"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/notifications"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, assistantClient *assistant.Client) {
	notifier := notifications.NewService(db, sender(cfg))

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, notifier)
	recordHandler := handlers.NewRecordHandler(db)
	assistantHandler := handlers.NewAssistantHandler(assistantClient)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutes := private.Group("/auth")
		{
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/profile", authHandler.GetProfile)
			authRoutes.PUT("/profile", authHandler.UpdateProfile)
		}

		userRoutes := private.Group("/users")
		{
			// Doctors and admins need the patient directory
			userRoutes.GET("/patients",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				userHandler.GetPatients)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:userId", doctorHandler.GetDoctorByUserID)
			doctorRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				doctorHandler.CreateDoctor)
		}

		availabilityRoutes := private.Group("/availability")
		{
			// Reads are open to any authenticated user; writes check
			// ownership in the handler.
			availabilityRoutes.GET("/:doctorId/reserved", availabilityHandler.GetReserved)
			availabilityRoutes.GET("/:doctorId/:weekday", availabilityHandler.GetForWeekday)
			availabilityRoutes.PUT("/:doctorId/:weekday",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				availabilityHandler.ReplaceForWeekday)
			availabilityRoutes.POST("/:doctorId/:weekday/reset",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				availabilityHandler.ResetForWeekday)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RolePatient),
				appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/occupied/:doctorId/:date", appointmentHandler.GetOccupiedTimes)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.POST("/:id/visit",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				recordHandler.AddVisit)
		}

		recordRoutes := private.Group("/medical-records")
		{
			recordRoutes.GET("/patient/:patientId", recordHandler.GetRecordsForPatient)
			recordRoutes.GET("/:id", recordHandler.GetRecordByID)
		}

		private.POST("/assistant/diagnosis", assistantHandler.Diagnose)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}

func sender(cfg *config.Config) notifications.EmailSender {
	if sg := notifications.NewSendGridSender(
		cfg.Mailer.SendGridAPIKey, cfg.Mailer.FromEmail, cfg.Mailer.FromName); sg != nil {
		return sg
	}
	return nil
}
