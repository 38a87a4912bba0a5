package handler

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/util"
	"Zuno/internal/service"

	"github.com/gin-gonic/gin"
)

// viewerOf 取当前请求者，匿名时 ID 为 0
func viewerOf(c *gin.Context) service.Viewer {
	v := service.Viewer{ID: c.GetUint64(consts.UserIDKey)}
	if roles := c.GetStringSlice(consts.RolesKey); len(roles) > 0 {
		v.Role = roles[0]
	}
	return v
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	return util.ParseUint64(c.Param(name))
}

func pageQuery(c *gin.Context) (int, int) {
	page := util.Atoi(c.DefaultQuery("page", "1"), consts.DefaultPage)
	limit := util.Atoi(c.DefaultQuery("limit", "0"), 0)
	return page, limit
}

// bindJSON 解析并校验请求体
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return util.ValidateDTO(req)
}
