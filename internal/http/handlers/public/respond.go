package public

import (
	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.Fail(c, code, key, err)
}
