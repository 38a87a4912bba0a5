package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/response"
	"Zuno/internal/pkg/security"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc   service.UserService
	followSvc service.UserFollowService
}

func NewUserHandler(userSvc service.UserService, followSvc service.UserFollowService) *UserHandler {
	return &UserHandler{userSvc: userSvc, followSvc: followSvc}
}

// Register 注册并直接登录
func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	token, err := s.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "registered", token)
}

func (s *UserHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	token, err := s.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *UserHandler) Logout(c *gin.Context) {
	token, _ := security.BearerToken(c.GetHeader("Authorization"))
	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "logged out", nil)
}

func (s *UserHandler) GetMe(c *gin.Context) {
	user, err := s.userSvc.GetMe(c.Request.Context(), viewerOf(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := s.userSvc.UpdateProfile(c.Request.Context(), viewerOf(c).ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdatePreferences(c *gin.Context) {
	var req dto.UpdatePreferencesDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := s.userSvc.UpdatePreferences(c.Request.Context(), viewerOf(c).ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// GetProfile 公开主页，登录用户额外返回关注状态
func (s *UserHandler) GetProfile(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	profile, err := s.userSvc.GetProfile(c.Request.Context(), viewerOf(c).ID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *UserHandler) GetFollowers(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, limit := pageQuery(c)

	followers, err := s.followSvc.GetUserFollowers(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserHandler) GetFollowing(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, limit := pageQuery(c)

	following, err := s.followSvc.GetUserFollowing(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, following)
}

func (s *UserHandler) GetFollowStatus(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.followSvc.GetFollowStatus(c.Request.Context(), viewerOf(c).ID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FollowStatusDTO{State: state})
}
