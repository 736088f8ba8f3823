package admin

import (
	"strings"

	"github.com/tiffin-desk/internal/draft"
	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DraftActionsRequest 草稿动作批量请求，按顺序执行，任一失败则整体不生效
type DraftActionsRequest struct {
	Actions []draft.Action `json:"actions" binding:"required,min=1"`
}

// CreateDraft 新建订单草稿
func (h *Handler) CreateDraft(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	view, err := h.DraftService.Create(c.Request.Context(), adminID)
	if err != nil {
		respondMapped(c, err, handlershared.DraftErrorRules, "error.draft_store_failed")
		return
	}
	response.Success(c, view)
}

// GetDraft 获取草稿及实时合计
func (h *Handler) GetDraft(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	view, err := h.DraftService.Get(c.Request.Context(), id, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.DraftErrorRules, "error.draft_store_failed")
		return
	}
	response.Success(c, view)
}

// ApplyDraftActions 执行草稿动作并返回重新核算后的草稿
func (h *Handler) ApplyDraftActions(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	var req DraftActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.DraftService.ApplyActions(c.Request.Context(), id, currentAdminID(c), req.Actions)
	if err != nil {
		respondMapped(c, err, handlershared.DraftErrorRules, "error.draft_store_failed")
		return
	}
	response.Success(c, view)
}

// DiscardDraft 丢弃草稿
func (h *Handler) DiscardDraft(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return
	}
	if err := h.DraftService.Discard(c.Request.Context(), id, currentAdminID(c)); err != nil {
		respondMapped(c, err, handlershared.DraftErrorRules, "error.draft_store_failed")
		return
	}
	response.Success(c, nil)
}
