package handler

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/service"
	"golang.org/x/time/rate"
)

const (
	sessionUserIDKey = "user_id"
	sessionEmailKey  = "email"

	invalidCredentialsMessage = "Invalid email or password"
)

// loginLimiter 按客户端 IP 限制登录尝试频率。
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// maxTrackedClients 超出后清空记录，防止内存无限增长。
const maxTrackedClients = 10000

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &loginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter.Allow()
}

// ShowLoginPage 渲染登录页面；已登录时直接进入后台。
func (a *API) ShowLoginPage(c *gin.Context) {
	if currentSession(c) != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Admin Login",
	})
}

// Login 校验表单凭据并写入会话。失败时统一提示，不区分账号是否存在。
func (a *API) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if !a.logins.allow(clientIP(c)) {
		a.renderHTML(c, http.StatusTooManyRequests, "login.html", gin.H{
			"title": "Admin Login",
			"error": invalidCredentialsMessage,
			"email": email,
		})
		return
	}

	user, err := a.auth.SignIn(email, password)
	if err != nil {
		status := statusForError(err)
		message := invalidCredentialsMessage
		if status == http.StatusInternalServerError {
			c.Error(err)
			a.logger.Error("sign in failed", "error", err)
			message = "Sign in is unavailable, please try again"
		}
		a.renderHTML(c, status, "login.html", gin.H{
			"title": "Admin Login",
			"error": message,
			"email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.UserID)
	session.Set(sessionEmailKey, user.Email)
	if err := session.Save(); err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Admin Login",
			"error": "Failed to save session",
		})
		return
	}

	a.logger.Info("admin signed in", "email", user.Email)
	c.Redirect(http.StatusFound, "/admin")
}

// Logout 清除会话并返回登录页。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.Redirect(http.StatusFound, "/login")
}

// AuthRequired 拦截未登录请求：后台页面重定向到登录页，JSON 接口返回 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := currentSession(c)
		if current == nil {
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(sessionEmailKey, current.Email)
		c.Next()
	}
}

func currentSession(c *gin.Context) *service.Session {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserIDKey).(string)
	if !ok || userID == "" {
		return nil
	}
	email, _ := session.Get(sessionEmailKey).(string)
	return &service.Session{UserID: userID, Email: email}
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			return c.Request.RemoteAddr
		}
		return host
	}
	return ip
}

// ShowDashboard 渲染后台主面板：按分类分组的条目、全部文章与站点设置。
func (a *API) ShowDashboard(c *gin.Context) {
	items, err := a.projects.ListAll()
	if err != nil {
		c.Error(err)
		a.logger.Error("load project items failed", "error", err)
	}
	posts, err := a.blogs.ListAll()
	if err != nil {
		c.Error(err)
		a.logger.Error("load blog posts failed", "error", err)
	}

	a.renderHTML(c, http.StatusOK, "admin.html", gin.H{
		"title":      "Dashboard",
		"email":      c.GetString(sessionEmailKey),
		"sections":   service.ManageSections(items),
		"posts":      posts,
		"categories": db.Categories,
		"loadError":  len(c.Errors) > 0,
	})
}
