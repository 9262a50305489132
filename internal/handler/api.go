package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/cache"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/view"
	"gorm.io/gorm"
)

// Dependencies 汇总 handler 需要的外部组件，由 cmd/server 组装后注入。
type Dependencies struct {
	Settings   service.SettingsRepository
	Assets     *service.AssetService
	Cache      cache.Cache
	CacheTTL   time.Duration
	Logger     *slog.Logger
	LoginRate  int
	LoginBurst int
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	projects *service.ProjectService
	blogs    *service.BlogService
	settings service.SettingsRepository
	auth     *service.AuthService
	assets   *service.AssetService
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	logins   *loginLimiter
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := deps.Settings
	if settings == nil {
		settings = service.NewSettingsService(gdb)
	}

	projectCache := deps.Cache
	if projectCache == nil {
		projectCache = cache.NewMemoryCache(deps.CacheTTL)
	}

	return &API{
		projects: service.NewProjectService(gdb),
		blogs:    service.NewBlogService(gdb),
		settings: settings,
		auth:     service.NewAuthService(gdb),
		assets:   deps.Assets,
		cache:    projectCache,
		cacheTTL: deps.CacheTTL,
		logger:   logger,
		logins:   newLoginLimiter(deps.LoginRate, deps.LoginBurst),
	}
}

func (a *API) siteSettings(c *gin.Context) service.SiteSettings {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if settings, ok := cached.(service.SiteSettings); ok {
			return settings
		}
	}

	settings, err := a.settings.Get()
	if err != nil {
		// 设置读取失败不影响页面渲染，退回默认值
		c.Error(err)
		a.logger.Warn("load site settings failed", "error", err)
		settings = service.DefaultSiteSettings()
	}

	c.Set(siteSettingsContextKey, settings)
	return settings
}

const siteSettingsContextKey = "__site_settings"

// renderHTML 在向模板渲染时自动附加站点设置与年份。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	site, ok := payload["site"].(service.SiteSettings)
	if !ok {
		site = a.siteSettings(c)
		payload["site"] = site
	}
	if _, exists := payload["socialLinks"]; !exists {
		payload["socialLinks"] = view.SocialLinks(site)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}
