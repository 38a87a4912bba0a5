package api

import (
	"Zuno/internal/api/handler"
	"Zuno/internal/api/middleware"
	"Zuno/internal/pkg/security"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler        *handler.UserHandler
	UserFollowHandler  *handler.UserFollowHandler
	ContentHandler     *handler.ContentHandler
	InteractionHandler *handler.InteractionHandler
	FeedHandler        *handler.FeedHandler
	MediaHandler       *handler.MediaHandler
	IMHandler          *handler.IMHandler
	SysBoxHandler      *handler.SysBoxHandler
	AdminHandler       *handler.AdminHandler

	Blacklist    security.TokenBlacklist
	ShareLimiter *middleware.IPRateLimiter
	AllowOrigins []string
}
