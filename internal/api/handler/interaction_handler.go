package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionSvc service.InteractionService
}

func NewInteractionHandler(interactionSvc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionSvc: interactionSvc}
}

func (s *InteractionHandler) Helpful(c *gin.Context) {
	s.feedback(c, model.InteractionHelpful)
}

// NotUseful 同时挂在 /dislike 别名上
func (s *InteractionHandler) NotUseful(c *gin.Context) {
	s.feedback(c, model.InteractionNotUseful)
}

func (s *InteractionHandler) feedback(c *gin.Context, typ string) {
	contentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.interactionSvc.SetFeedback(c.Request.Context(), viewerOf(c), contentID, typ)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *InteractionHandler) ToggleSave(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.interactionSvc.ToggleSave(c.Request.Context(), viewerOf(c), contentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Share 匿名可用，登录后可分享自己可见的 private / community 内容
func (s *InteractionHandler) Share(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.interactionSvc.RecordShare(c.Request.Context(), viewerOf(c), contentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *InteractionHandler) Report(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.ReportDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.interactionSvc.SubmitReport(c.Request.Context(), viewerOf(c), contentID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "report submitted", nil)
}

func (s *InteractionHandler) GetState(c *gin.Context) {
	contentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.interactionSvc.GetState(c.Request.Context(), viewerOf(c), contentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}
