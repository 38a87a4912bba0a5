package api

import (
	"Zuno/internal/api/middleware"
	"Zuno/internal/model"
	"Zuno/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(group.AllowOrigins))
	r.Use(middleware.MetricsMiddleware())
	logger.SetupGin(r)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(group.Blacklist)
	authOpt := middleware.AuthOptionalMiddleware(group.Blacklist)
	staff := middleware.CheckRoles(model.RoleModerator, model.RoleAdmin)
	admin := middleware.CheckRoles(model.RoleAdmin)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "pong"})
		})
		apiGroup.GET("/config/public", group.AdminHandler.GetPublicConfig)

		userGroup := apiGroup.Group("/users")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.GET("/:id/followers", group.UserHandler.GetFollowers)
			userGroup.GET("/:id/following", group.UserHandler.GetFollowing)

			optGroup := userGroup.Group("")
			optGroup.Use(authOpt)
			{
				optGroup.GET("/:id", group.UserHandler.GetProfile)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/me", group.UserHandler.GetMe)
				authGroup.PUT("/me", group.UserHandler.UpdateMe)
				authGroup.PUT("/me/preferences", group.UserHandler.UpdatePreferences)
				authGroup.GET("/:id/follow-status", group.UserHandler.GetFollowStatus)

				authGroup.POST("/:id/follow", group.UserFollowHandler.Follow)
				authGroup.POST("/:id/unfollow", group.UserFollowHandler.Unfollow)
				authGroup.POST("/:id/follow/cancel", group.UserFollowHandler.CancelRequest)
				authGroup.GET("/requests/pending", group.UserFollowHandler.GetPendingRequests)
				authGroup.POST("/requests/:id/accept", group.UserFollowHandler.AcceptRequest)
				authGroup.POST("/requests/:id/reject", group.UserFollowHandler.RejectRequest)
			}
		}

		contentGroup := apiGroup.Group("/content")
		{
			contentGroup.POST("/:id/share", middleware.RateLimitMiddleware(group.ShareLimiter), authOpt, group.InteractionHandler.Share)

			optGroup := contentGroup.Group("")
			optGroup.Use(authOpt)
			{
				optGroup.GET("/:id", group.ContentHandler.GetContent)
			}

			authGroup := contentGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("", group.ContentHandler.CreateContent)
				authGroup.GET("/saved", group.ContentHandler.GetSavedContents)
				authGroup.PUT("/:id", group.ContentHandler.UpdateContent)
				authGroup.DELETE("/:id", group.ContentHandler.DeleteContent)
				authGroup.GET("/:id/processing", group.ContentHandler.GetProcessing)
				authGroup.PUT("/:id/media/:mediaId/status", group.ContentHandler.UpdateMediaStatus)

				authGroup.POST("/:id/helpful", group.InteractionHandler.Helpful)
				authGroup.POST("/:id/not-useful", group.InteractionHandler.NotUseful)
				authGroup.POST("/:id/dislike", group.InteractionHandler.NotUseful)
				authGroup.POST("/:id/save", group.InteractionHandler.ToggleSave)
				authGroup.POST("/:id/report", group.InteractionHandler.Report)
				authGroup.GET("/:id/state", group.InteractionHandler.GetState)
			}
		}

		feedGroup := apiGroup.Group("/feed")
		feedGroup.Use(authOpt)
		{
			feedGroup.GET("", group.FeedHandler.GetFeed)
			feedGroup.GET("/topic/:topic", group.FeedHandler.GetTopicFeed)
			feedGroup.GET("/creator/:username", group.FeedHandler.GetCreatorFeed)
			feedGroup.GET("/search", group.FeedHandler.Search)
		}

		mediaGroup := apiGroup.Group("/media")
		mediaGroup.Use(auth)
		{
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}

		imGroup := apiGroup.Group("/im")
		imGroup.Use(auth)
		{
			imGroup.POST("/send", group.IMHandler.SendMessage)
			imGroup.GET("/list", group.IMHandler.GetConversationList)
			imGroup.GET("/history", group.IMHandler.GetChatHistory)
			imGroup.GET("/sync", group.IMHandler.SyncMessages)
			imGroup.POST("/read", group.IMHandler.MarkAsRead)
			imGroup.GET("/unread", group.IMHandler.GetTotalUnread)
		}

		sysBoxGroup := apiGroup.Group("/sysbox")
		sysBoxGroup.Use(auth)
		{
			sysBoxGroup.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysBoxGroup.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysBoxGroup.POST("/read", group.SysBoxHandler.MarkRead)
			sysBoxGroup.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(auth)
		{
			staffGroup := adminGroup.Group("")
			staffGroup.Use(staff)
			{
				staffGroup.GET("/reports", group.AdminHandler.ListReports)
				staffGroup.PUT("/reports/:id", group.AdminHandler.ResolveReport)
				staffGroup.GET("/content/pending", group.AdminHandler.ListPending)
				staffGroup.PUT("/content/:id/approve", group.AdminHandler.Approve)
				staffGroup.PUT("/content/:id/reject", group.AdminHandler.Reject)
				staffGroup.PUT("/content/:id/remove", group.AdminHandler.Remove)
			}

			adminOnly := adminGroup.Group("")
			adminOnly.Use(admin)
			{
				adminOnly.GET("/config", group.AdminHandler.ListConfig)
				adminOnly.PUT("/config/:key", group.AdminHandler.SetConfig)
				adminOnly.PUT("/users/:id/active", group.AdminHandler.SetUserActive)
				adminOnly.PUT("/users/:id/role", group.AdminHandler.SetUserRole)
			}
		}
	}

	return r
}
