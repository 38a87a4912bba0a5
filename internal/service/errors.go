package service

import (
	"errors"
	"net/http"
)

// 错误分类，随响应的 error 字段返回
const (
	KindNotFound        = "NotFound"
	KindForbidden       = "Forbidden"
	KindConflict        = "Conflict"
	KindValidation      = "ValidationError"
	KindUnauthorized    = "Unauthorized"
	KindTooManyRequests = "TooManyRequests"
	KindInternal        = "InternalError"
)

var (
	ErrParamInvalid       = errors.New("invalid parameter")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("permission denied")
	ErrTooManyRequests    = errors.New("too many requests, slow down")
	UnExpectedError       = errors.New("unexpected error, please retry later")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrUsernameExist      = errors.New("username already taken")
	ErrEmailExist         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrInvalidRole        = errors.New("unknown role")
	ErrFollowSelf         = errors.New("cannot follow/unfollow yourself")
	ErrAlreadyFollowing   = errors.New("already follow this user")
	ErrRequestAlreadySent = errors.New("request already sent")
	ErrNoFollowRequest    = errors.New("no request from this user")
	ErrNotFollowing       = errors.New("you do not follow this user")
	ErrNoOutgoingRequest  = errors.New("no request to this user")
	ErrContentNotFound    = errors.New("content not found")
	ErrPrivateContent     = errors.New("this content is private: private account")
	ErrNotContentOwner    = errors.New("only the creator or an admin can change this content")
	ErrMediaNotFound      = errors.New("media not found")
	ErrMediaTransition    = errors.New("media status can only move from uploading to ready or failed")
	ErrDuplicateReport    = errors.New("you have already reported this content")
	ErrReportNotFound     = errors.New("report not found")
	ErrReportReviewed     = errors.New("report already reviewed")
	ErrInvalidFeedMode    = errors.New("unknown feed mode")
	ErrInvalidTopic       = errors.New("unknown topic")
	ErrInvalidContentType = errors.New("unknown content type")
	ErrUnknownConfigKey   = errors.New("unknown config key")
	ErrInvalidConfigValue = errors.New("invalid config value")
	ErrFileNotSupported   = errors.New("unsupported file type")
	ErrSysBoxNotFound     = errors.New("notification not found")
	ErrConversation       = errors.New("conversation not available")
	ErrMessageSelf        = errors.New("cannot message yourself")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       http.StatusBadRequest,
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrTooManyRequests:    http.StatusTooManyRequests,
	UnExpectedError:       http.StatusInternalServerError,
	ErrUserNotFound:       http.StatusNotFound,
	ErrUserInactive:       http.StatusForbidden,
	ErrUsernameExist:      http.StatusConflict,
	ErrEmailExist:         http.StatusConflict,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrInvalidRole:        http.StatusBadRequest,
	ErrFollowSelf:         http.StatusConflict,
	ErrAlreadyFollowing:   http.StatusConflict,
	ErrRequestAlreadySent: http.StatusConflict,
	ErrNoFollowRequest:    http.StatusNotFound,
	ErrNotFollowing:       http.StatusConflict,
	ErrNoOutgoingRequest:  http.StatusConflict,
	ErrContentNotFound:    http.StatusNotFound,
	ErrPrivateContent:     http.StatusForbidden,
	ErrNotContentOwner:    http.StatusForbidden,
	ErrMediaNotFound:      http.StatusNotFound,
	ErrMediaTransition:    http.StatusConflict,
	ErrDuplicateReport:    http.StatusConflict,
	ErrReportNotFound:     http.StatusNotFound,
	ErrReportReviewed:     http.StatusConflict,
	ErrInvalidFeedMode:    http.StatusBadRequest,
	ErrInvalidTopic:       http.StatusBadRequest,
	ErrInvalidContentType: http.StatusBadRequest,
	ErrUnknownConfigKey:   http.StatusBadRequest,
	ErrInvalidConfigValue: http.StatusBadRequest,
	ErrFileNotSupported:   http.StatusBadRequest,
	ErrSysBoxNotFound:     http.StatusNotFound,
	ErrConversation:       http.StatusBadRequest,
	ErrMessageSelf:        http.StatusBadRequest,
}

// StatusOf 返回错误对应的 HTTP 状态码，支持被 %w 包装的哨兵错误
func StatusOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for sentinel, code := range ErrorMap {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return http.StatusInternalServerError, false
}

// KindOf 状态码到错误分类
func KindOf(status int) string {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindTooManyRequests
	default:
		return KindInternal
	}
}
