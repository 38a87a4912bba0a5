package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/response"
	"Zuno/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

// AdminHandler 运营配置、审核与账号管理
type AdminHandler struct {
	configSvc     service.AdminConfigService
	moderationSvc service.ModerationService
	userSvc       service.UserService
}

func NewAdminHandler(configSvc service.AdminConfigService, moderationSvc service.ModerationService, userSvc service.UserService) *AdminHandler {
	return &AdminHandler{configSvc: configSvc, moderationSvc: moderationSvc, userSvc: userSvc}
}

// GetPublicConfig 客户端轮询参数，无需登录
func (h *AdminHandler) GetPublicConfig(c *gin.Context) {
	cfg, err := h.configSvc.Public(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *AdminHandler) ListConfig(c *gin.Context) {
	entries, err := h.configSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (h *AdminHandler) SetConfig(c *gin.Context) {
	var req dto.UpdateConfigDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	entry, err := h.configSvc.Set(c.Request.Context(), c.Param("key"), req.Value, viewerOf(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, limit := pageQuery(c)

	reports, err := h.moderationSvc.ListReports(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reports)
}

func (h *AdminHandler) ResolveReport(c *gin.Context) {
	reportID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.ResolveReportDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.moderationSvc.ResolveReport(c.Request.Context(), viewerOf(c).ID, reportID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "report resolved", nil)
}

func (h *AdminHandler) ListPending(c *gin.Context) {
	page, limit := pageQuery(c)

	pending, err := h.moderationSvc.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pending)
}

func (h *AdminHandler) Approve(c *gin.Context) {
	h.moderate(c, h.moderationSvc.Approve, "content approved")
}

func (h *AdminHandler) Reject(c *gin.Context) {
	h.moderate(c, h.moderationSvc.Reject, "content rejected")
}

func (h *AdminHandler) Remove(c *gin.Context) {
	h.moderate(c, h.moderationSvc.Remove, "content removed")
}

func (h *AdminHandler) moderate(c *gin.Context, action func(ctx context.Context, reviewerID, contentID uint64) error, msg string) {
	contentID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := action(c.Request.Context(), viewerOf(c).ID, contentID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, msg, nil)
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.SetActiveDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.userSvc.SetActive(c.Request.Context(), userID, *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": userID, "isActive": *req.IsActive})
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.SetRoleDTO
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.userSvc.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": userID, "role": req.Role})
}
