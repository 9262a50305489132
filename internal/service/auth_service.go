package service

import (
	"errors"
	"strings"

	"github.com/portfolio/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session 是登录成功后写入 cookie 会话的身份信息。
type Session struct {
	UserID string
	Email  string
}

// AuthService 校验后台管理员的邮箱与密码。
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// SignIn 验证凭据。账号不存在与密码错误返回同一个 ErrInvalidCredentials，避免泄露账号是否存在。
func (s *AuthService) SignIn(email, password string) (Session, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, storeError("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return Session{UserID: user.ID, Email: user.Email}, nil
}
