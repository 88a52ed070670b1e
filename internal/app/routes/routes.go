package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaan/attendly/internal/app/controllers"
	"github.com/kaan/attendly/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	participationController *controllers.ParticipationController,
	userController *controllers.UserController,
	taskRequestController *controllers.TaskRequestController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		events := authenticated.Group("/events")
		{
			events.GET("", eventController.GetAllEvents)
			events.GET("/:id", eventController.GetEventByID)
			events.POST("", eventController.CreateEvent)
			events.PUT("/:id", eventController.UpdateEvent)
			events.DELETE("/:id", eventController.DeleteEvent)

			events.GET("/:id/participants", participationController.GetParticipants)
			events.POST("/:id/participants", participationController.Invite)
			events.DELETE("/:id/participants/:userId", participationController.Remove)
		}

		participations := authenticated.Group("/participations")
		{
			participations.POST("/:id/respond", participationController.Respond)
		}

		me := authenticated.Group("/users/me")
		{
			me.GET("/schedule", userController.GetSchedule)
			me.GET("/summary", userController.GetSummary)
			me.GET("/compliance", userController.GetCompliance)
		}

		taskRequests := authenticated.Group("/task-requests")
		{
			taskRequests.POST("", taskRequestController.CreateTaskRequest)
			taskRequests.GET("", taskRequestController.ListTaskRequests)
			taskRequests.GET("/:id", taskRequestController.GetTaskRequestByID)
			taskRequests.POST("/:id/respond", taskRequestController.Respond)
		}
	}
}
