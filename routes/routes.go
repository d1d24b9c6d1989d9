package routes

import (
	"net/http"
	"time"

	"moviemate/handlers"
	"moviemate/middleware"
	"moviemate/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.Auth.MeHandler)
		api.POST("/logout", hb.Auth.LogoutHandler)
	}
}

// RegisterUserRoutes registers profile, bookmark, and watch-log endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.PUT("/profile", hb.Users.UpdateProfileHandler)
		api.POST("/avatar", hb.Storage.UploadAvatarHandler)

		api.GET("/bookmarks", hb.Users.ListBookmarksHandler)
		api.POST("/bookmarks/:movieId", hb.Users.AddBookmarkHandler)
		api.DELETE("/bookmarks/:movieId", hb.Users.RemoveBookmarkHandler)
		api.GET("/bookmarks/check/:movieId", hb.Users.CheckBookmarkHandler)

		api.GET("/watched", hb.Users.ListWatchedHandler)
		api.POST("/watched/:movieId", hb.Users.AddWatchedHandler)
		api.DELETE("/watched/:movieId", hb.Users.RemoveWatchedHandler)
		api.GET("/watched/check/:movieId", hb.Users.CheckWatchedHandler)
	}
}

// RegisterNotificationRoutes registers the push-notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		// The dismissal sink is called by the delivery worker without a
		// session.
		api.POST("/dismissed", hb.Notifications.DismissedHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("/subscribe", hb.Notifications.SubscribeHandler)
		api.POST("/unsubscribe", hb.Notifications.UnsubscribeHandler)
		api.POST("/test", hb.Notifications.TestNotificationHandler)
		api.POST("/bookmark", hb.Notifications.BookmarkNotificationHandler)
		api.POST("/watched", hb.Notifications.WatchedNotificationHandler)
		api.POST("/bulk", hb.Notifications.BulkNotificationHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterHealthRoute(r)
}
