package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
	MimePrefixVideo = "video"
)

// ctx keys
const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50
)

const (
	SysBoxTypeHelpful         = "helpful"
	SysBoxTypeFollow          = "follow"
	SysBoxTypeFollowRequest   = "follow_request"
	SysBoxTypeRequestAccepted = "request_accepted"
	SysBoxTypeModeration      = "moderation"
)
