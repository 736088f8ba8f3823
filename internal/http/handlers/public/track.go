package public

import (
	"errors"
	"strings"

	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackOrder 客户凭单号与手机号后四位查询配送进度
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Query("order_no"))
	phone := strings.TrimSpace(c.Query("phone"))
	if orderNo == "" || phone == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.DeliveryService.Track(orderNo, phone)
	if err != nil {
		if errors.Is(err, service.ErrTrackingNotFound) {
			respondError(c, response.CodeNotFound, "error.tracking_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}
	response.Success(c, view)
}
