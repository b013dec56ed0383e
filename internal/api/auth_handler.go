package api

import (
	"net/http"
	"strings"
	"time"
	"yatube/internal/service"
	"yatube/pkg/config"

	"github.com/gin-gonic/gin"
)

// 处理认证相关的HTTP请求
type AuthHandler struct {
	authService *service.AuthService
	cfg         config.JWTConfig
}

// 创建一个新的认证处理器实例
func NewAuthHandler(authService *service.AuthService, cfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// 处理用户注册请求
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingErrors(err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Register successful",
		"user":    user,
	})
}

// 处理用户登陆请求, 带 next 参数时登录后跳转
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, bindingErrors(err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req)
	if service.IsInvalidCredentials(err) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookie(c, token, int(h.cfg.Expiration/time.Second))
	if next := c.Query("next"); isLocalPath(next) {
		redirect(c, next)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	redirect(c, "/")
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, maxAge, "/", "", false, true)
}

// 只允许站内跳转
func isLocalPath(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\")
}
