package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type IMHandler struct {
	imService service.IMService
}

func NewIMHandler(imService service.IMService) *IMHandler {
	return &IMHandler{imService: imService}
}

// SendMessage 发送消息接口
func (s *IMHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.imService.SendMessage(c.Request.Context(), viewerOf(c).ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkAsRead 标记已读接口
func (s *IMHandler) MarkAsRead(c *gin.Context) {
	var req dto.MarkAsReadReq
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.imService.MarkAsRead(c.Request.Context(), viewerOf(c).ID, req.ConversationID, req.Sequence)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetChatHistory 向前翻页，last_seq 为 0 时从最新一条开始
func (s *IMHandler) GetChatHistory(c *gin.Context) {
	convID, lastSeq, pageSize, ok := s.seqQuery(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.imService.GetChatHistory(c.Request.Context(), viewerOf(c).ID, convID, lastSeq, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SyncMessages 轮询 last_seq 之后的新消息
func (s *IMHandler) SyncMessages(c *gin.Context) {
	convID, lastSeq, pageSize, ok := s.seqQuery(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.imService.SyncMessages(c.Request.Context(), viewerOf(c).ID, convID, lastSeq, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetConversationList 获取会话列表
func (s *IMHandler) GetConversationList(c *gin.Context) {
	res, err := s.imService.GetConversationList(c.Request.Context(), viewerOf(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *IMHandler) GetTotalUnread(c *gin.Context) {
	total, err := s.imService.GetTotalUnread(c.Request.Context(), viewerOf(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"unread": total})
}

func (s *IMHandler) seqQuery(c *gin.Context) (uint64, uint64, int, bool) {
	convID, err := strconv.ParseUint(c.Query("conversation_id"), 10, 64)
	if err != nil || convID == 0 {
		return 0, 0, 0, false
	}
	lastSeq, err := strconv.ParseUint(c.DefaultQuery("last_seq", "0"), 10, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return convID, lastSeq, pageSize, true
}
