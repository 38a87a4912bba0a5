package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentSvc service.ContentService
}

func NewContentHandler(contentSvc service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

func (s *ContentHandler) CreateContent(c *gin.Context) {
	var req dto.CreateContentDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	content, err := s.contentSvc.CreateContent(c.Request.Context(), viewerOf(c).ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "content created", content)
}

// GetContent 登录可选，私密内容按关注关系放行
func (s *ContentHandler) GetContent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	content, err := s.contentSvc.GetContent(c.Request.Context(), viewerOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, content)
}

func (s *ContentHandler) UpdateContent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.UpdateContentDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	content, err := s.contentSvc.UpdateContent(c.Request.Context(), viewerOf(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, content)
}

func (s *ContentHandler) DeleteContent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.contentSvc.DeleteContent(c.Request.Context(), viewerOf(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "content deleted", nil)
}

// GetProcessing 客户端轮询媒体处理状态
func (s *ContentHandler) GetProcessing(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	processing, err := s.contentSvc.GetProcessing(c.Request.Context(), viewerOf(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, processing)
}

func (s *ContentHandler) UpdateMediaStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	mediaID, ok := pathID(c, "mediaId")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.MediaStatusDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	media, err := s.contentSvc.UpdateMediaStatus(c.Request.Context(), viewerOf(c), id, mediaID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, media)
}

func (s *ContentHandler) GetSavedContents(c *gin.Context) {
	page, limit := pageQuery(c)

	saved, err := s.contentSvc.GetSavedContents(c.Request.Context(), viewerOf(c).ID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, saved)
}
