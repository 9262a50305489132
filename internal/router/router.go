package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/web"
)

// Options 控制路由层的可选行为。
type Options struct {
	SessionSecret string
	// SecureCookies 为 true 时会话 cookie 仅通过 HTTPS 发送
	SecureCookies bool
	// UploadDir 与 UploadURLPath 非空时，以静态路由对外提供本地上传目录
	UploadDir     string
	UploadURLPath string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) (*gin.Engine, error) {
	r := gin.Default()

	secret := opts.SessionSecret
	if secret == "" {
		secret = "portfolio-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("portfolio_session", store))

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	if opts.UploadDir != "" && opts.UploadURLPath != "" {
		r.Static(opts.UploadURLPath, opts.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/", api.ShowHome)
	r.GET("/blog", api.ShowBlogList)
	r.GET("/blog/:slug", api.ShowBlogPost)

	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)
	r.POST("/logout", api.Logout)

	admin := r.Group("/admin")
	admin.Use(handler.AuthRequired())
	{
		admin.GET("", api.ShowDashboard)

		apiGroup := admin.Group("/api")
		{
			apiGroup.GET("/projects", api.ListProjects)
			apiGroup.POST("/projects", api.CreateProject)
			apiGroup.PUT("/projects/:id", api.UpdateProject)
			apiGroup.DELETE("/projects/:id", api.DeleteProject)

			apiGroup.GET("/blogs", api.ListBlogs)
			apiGroup.POST("/blogs", api.CreateBlog)
			apiGroup.POST("/blogs/preview", api.PreviewBlog)
			apiGroup.GET("/blogs/:id", api.GetBlog)
			apiGroup.PUT("/blogs/:id", api.UpdateBlog)
			apiGroup.DELETE("/blogs/:id", api.DeleteBlog)

			apiGroup.GET("/settings", api.GetSettings)
			apiGroup.PUT("/settings", api.UpdateSettings)

			apiGroup.POST("/uploads", api.UploadAsset)
		}
	}

	r.NoRoute(api.NotFound)

	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"categoryLabel": func(c db.Category) string {
			return service.CategoryLabel(c)
		},
	}
}

// formatDate 以 "Jan 2, 2006" 格式展示时间；nil 或零值返回空串。
func formatDate(value any) string {
	switch t := value.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	default:
		return ""
	}
}
