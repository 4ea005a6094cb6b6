package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"forkful/apperr"
	"forkful/config"
	"forkful/handlers"
	"forkful/middleware"
	"forkful/response"
)

// Handlers collects the constructed handler set for wiring.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Posts         *handlers.PostHandler
	Comments      *handlers.CommentHandler
	Follows       *handlers.FollowHandler
	Notifications *handlers.NotificationHandler
	Meals         *handlers.MealHandler
	Admin         *handlers.AdminHandler
	Reports       *handlers.ReportHandler
}

// Setup builds the engine: global middleware, CORS, and the full route table
// under /api/v1.
func Setup(cfg *config.Config, logger *logrus.Logger, h Handlers, authLimiter *middleware.Limiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Errors(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	api := router.Group("/api/v1")

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Auth (public, rate limited)
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(authLimiter))
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// Posts
	posts := api.Group("/posts")
	{
		posts.GET("", optionalAuth, h.Posts.List)
		posts.GET("/search", optionalAuth, h.Posts.Search)
		posts.GET("/trending", optionalAuth, h.Posts.Trending)
		posts.GET("/feed", requireAuth, h.Posts.Feed)
		posts.POST("", requireAuth, h.Posts.Create)
		posts.GET("/:postId", optionalAuth, h.Posts.Get)
		posts.PUT("/:postId", requireAuth, h.Posts.Update)
		posts.DELETE("/:postId", requireAuth, h.Posts.Delete)
		posts.POST("/:postId/like", requireAuth, h.Posts.Like)
		posts.POST("/:postId/unlike", requireAuth, h.Posts.Unlike)
		posts.POST("/:postId/comments", requireAuth, h.Comments.Create)
		posts.GET("/:postId/comments", optionalAuth, h.Comments.List)
	}

	// Comments
	comments := api.Group("/comments", requireAuth)
	{
		comments.DELETE("/:commentId", h.Comments.Delete)
		comments.POST("/:commentId/like", h.Comments.Like)
		comments.POST("/:commentId/unlike", h.Comments.Unlike)
	}

	// Users and follow graph
	users := api.Group("/users")
	{
		users.GET("/me", requireAuth, h.Users.Me)
		users.PUT("/me", requireAuth, h.Users.UpdateMe)
		users.GET("/:id", optionalAuth, h.Users.Get)
		users.POST("/:id/follow", requireAuth, h.Follows.Follow)
		users.DELETE("/:id/follow", requireAuth, h.Follows.Unfollow)
		users.GET("/:id/followers", optionalAuth, h.Follows.Followers)
		users.GET("/:id/following", optionalAuth, h.Follows.Following)
	}

	// Notifications
	notifs := api.Group("/notifications", requireAuth)
	{
		notifs.GET("", h.Notifications.List)
		notifs.GET("/unread-count", h.Notifications.UnreadCount)
		notifs.PATCH("/read-all", h.Notifications.MarkAllRead)
		notifs.PATCH("/:id/read", h.Notifications.MarkRead)
		notifs.DELETE("/read", h.Notifications.DeleteRead)
		notifs.DELETE("/:id", h.Notifications.Delete)
		notifs.POST("/subscribe", h.Notifications.Subscribe)
		notifs.GET("/vapid-key", h.Notifications.VapidKey)
	}

	// Meal log
	meals := api.Group("/meals", requireAuth)
	{
		meals.POST("", h.Meals.Create)
		meals.GET("", h.Meals.List)
		meals.DELETE("/:id", h.Meals.Delete)
	}

	// Admin
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users/:id/promote", h.Admin.Promote)
		admin.POST("/users/:id/demote", h.Admin.Demote)
		admin.PATCH("/users/:id/status", h.Admin.SetStatus)
	}

	// Reports
	reports := api.Group("/reports", requireAuth)
	{
		adminReports := reports.Group("/admin", middleware.RequireAdmin())
		{
			adminReports.GET("/user-growth", h.Reports.UserGrowth)
			adminReports.GET("/demographics", h.Reports.Demographics)
			adminReports.GET("/food-popularity", h.Reports.FoodPopularity)
			adminReports.GET("/engagement", h.Reports.Engagement)
		}
		reports.GET("/user/nutrition", h.Reports.Nutrition)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, apperr.NotFound("no route for "+c.Request.URL.Path))
	})

	return router
}
