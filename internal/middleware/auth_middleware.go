package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/pkg/logger"
	"yatube/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserIDKey = "userID"
	ContextUserKey   = "user"
)

// 从 Authorization 头或 cookie 中取出 token
func tokenFromRequest(c *gin.Context, cookieName string) string {
	// 通常Authorization格式为: "Bearer token"
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// 识别当前用户. 不会中断请求, 无效或缺失的 token 视为匿名访问
func Authenticate(userRepo *repository.UserRepository, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		// 解析token
		claims, err := utils.ParseToken(token)
		if err != nil {
			logger.L.Debug("Ignoring invalid token", zap.Error(err))
			c.Next()
			return
		}

		// 获取用户信息
		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.L.Error("Failed to load user for token", zap.Uint("userID", claims.UserID), zap.Error(err))
			c.Next()
			return
		}
		if user == nil {
			c.Next()
			return
		}

		// 将用户ID存储在上下文中
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)

		c.Next()
	}
}

// 匿名用户被重定向到登录页, next 参数带上原始地址
func RequireAuth(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		target := loginURL + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// 仅管理员可访问, 必须放在 RequireAuth 之后
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// 当前登录用户, 匿名时返回 false
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}
