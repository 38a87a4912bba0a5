package handler

import (
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

// Follow 公开账号直接关注，私密账号发起申请
func (s *UserFollowHandler) Follow(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.userFollowSvc.Follow(c.Request.Context(), viewerOf(c).ID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"state": state})
}

// Unfollow 取消关注，未关注但有申请时撤回申请
func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.Unfollow(c.Request.Context(), viewerOf(c).ID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "unfollowed", nil)
}

func (s *UserFollowHandler) CancelRequest(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.CancelRequest(c.Request.Context(), viewerOf(c).ID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "request cancelled", nil)
}

func (s *UserFollowHandler) AcceptRequest(c *gin.Context) {
	requesterID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.AcceptRequest(c.Request.Context(), viewerOf(c).ID, requesterID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "request accepted", nil)
}

func (s *UserFollowHandler) RejectRequest(c *gin.Context) {
	requesterID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.RejectRequest(c.Request.Context(), viewerOf(c).ID, requesterID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "request rejected", nil)
}

func (s *UserFollowHandler) GetPendingRequests(c *gin.Context) {
	page, limit := pageQuery(c)

	requests, err := s.userFollowSvc.GetPendingRequests(c.Request.Context(), viewerOf(c).ID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, requests)
}
