package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

// GetSettings returns the current site settings, defaults included.
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		a.respondServiceError(c, err, "failed to load site settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings 整体替换站点设置，请求中缺省的字段会被清空。
func (a *API) UpdateSettings(c *gin.Context) {
	var req service.SiteSettings
	if !bindJSON(c, &req, "invalid settings payload") {
		return
	}

	saved, err := a.settings.Set(req)
	if err != nil {
		a.respondServiceError(c, err, "failed to update site settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings updated", "settings": saved})
}
