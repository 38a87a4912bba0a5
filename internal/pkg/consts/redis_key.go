package consts

const (
	TokenBlacklistKey    = "auth:blacklist:"
	ContentDirtyKey      = "content:dirty"
	AdminConfigKey       = "admin:config"
	MediaTempKey         = "media:temp"
	ContentReconcileLock = "lock:content:reconcile"
	StoryExpiryLock      = "lock:story:expiry"
	MediaCleanupLock     = "lock:media:cleanup"
	ProcessingKeySuffix  = ":processing"
)
