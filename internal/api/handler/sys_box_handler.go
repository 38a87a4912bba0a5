package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

type SysBoxHandler struct {
	sysBoxService service.SysBoxService
}

func NewSysBoxHandler(s service.SysBoxService) *SysBoxHandler {
	return &SysBoxHandler{
		sysBoxService: s,
	}
}

// GetNotificationList 通知按时间倒序分页
func (h *SysBoxHandler) GetNotificationList(c *gin.Context) {
	page, limit := pageQuery(c)
	list, err := h.sysBoxService.GetNotificationList(c.Request.Context(), viewerOf(c).ID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (h *SysBoxHandler) GetUnreadCount(c *gin.Context) {
	unread, err := h.sysBoxService.GetUnreadCount(c.Request.Context(), viewerOf(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, unread)
}

func (h *SysBoxHandler) MarkRead(c *gin.Context) {
	var req dto.SysBoxReadReq
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.sysBoxService.MarkRead(c.Request.Context(), viewerOf(c).ID, req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 一键已读
func (h *SysBoxHandler) MarkAllRead(c *gin.Context) {
	n, err := h.sysBoxService.MarkAllRead(c.Request.Context(), viewerOf(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"updated": n})
}
