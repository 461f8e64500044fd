package api

import (
	"github.com/kaushalkumar0001/StressLess/metrics"
	"github.com/kaushalkumar0001/StressLess/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint on r. Everything but auth, health and
// metrics requires a bearer token signed with jwtSecret.
func RegisterRoutes(r *gin.Engine, handler *APIHandler, jwtSecret string) {
	r.GET("/metrics", metrics.Handler())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", handler.HealthHandler)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/signup", handler.SignupHandler)
			authGroup.POST("/login", handler.LoginHandler)
			authGroup.GET("/me", middleware.AuthRequired(jwtSecret), handler.MeHandler)
		}

		protected := apiGroup.Group("")
		protected.Use(middleware.AuthRequired(jwtSecret))
		{
			protected.POST("/assessment/start", handler.StartAssessmentHandler)
			protected.POST("/assessment/reset", handler.ResetAssessmentHandler)

			protected.POST("/results", handler.SubmitResultHandler)
			protected.GET("/results/:id", handler.GetResultHandler)
			protected.POST("/ai-analysis", handler.AnalysisHandler)

			protected.GET("/history", handler.GetHistoryHandler)
			protected.GET("/progress", handler.GetProgressReportHandler)

			protected.POST("/appointments", handler.BookAppointmentHandler)
			protected.DELETE("/appointments/:id", handler.CancelAppointmentHandler)

			protected.POST("/chat", handler.ChatHandler)
			protected.GET("/chat/history", handler.ChatHistoryHandler)
		}
	}
}
