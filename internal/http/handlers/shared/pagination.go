package shared

import (
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryPagination 读取 page/page_size；非法值回落到第 1 页、每页 20 条，单页最多 100 条
func QueryPagination(c *gin.Context) repository.Pagination {
	page := max(cast.ToInt(c.Query("page")), 1)
	size := cast.ToInt(c.Query("page_size"))
	if size <= 0 {
		size = defaultPageSize
	}
	return repository.Pagination{Page: page, PageSize: min(size, maxPageSize)}
}

func RespondPage(c *gin.Context, data interface{}, page repository.Pagination, total int64) {
	response.SuccessWithPage(c, data, response.NewPagination(page.Page, page.PageSize, total))
}
