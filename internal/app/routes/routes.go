package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/XiongPengNUS/canvasplus/internal/app/controllers"
	"github.com/XiongPengNUS/canvasplus/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	rosterController *controllers.RosterController,
	discussionController *controllers.DiscussionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Operational endpoints stay outside the token requirement
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group; every endpoint needs a Canvas access token
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.AccessTokenRequired())

	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetCourses)
		courses.GET("/:id/group-categories", courseController.GetGroupCategories)
		courses.GET("/:id/discussion-topics", courseController.GetDiscussionTopics)

		courses.POST("/:id/roster/export", rosterController.ExportRoster)
		courses.POST("/:id/roster/preview", rosterController.PreviewRoster)

		courses.POST("/:id/discussions/summary", discussionController.GetSummary)
		courses.POST("/:id/discussions/export", discussionController.ExportDiscussion)
	}

	v1.DELETE("/cache", rosterController.InvalidateCache)
}
