package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"yatube/internal/middleware"
	"yatube/internal/service"
	"yatube/pkg/logger"
	"yatube/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerTagNameOnce sync.Once

// 校验错误使用表单字段名而不是结构体字段名
func registerFormTagNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}

// 把 gin 绑定错误转换为与业务校验相同的结构
func bindingErrors(err error) *service.ValidationError {
	verr := &service.ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("__all__", "Invalid request body.")
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldErrorMessage(fe))
	}
	return verr
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	default:
		return "Enter a valid value."
	}
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDValue, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDValue.(uint)
	if !ok {
		logger.L.Error("Invalid userID type in context", zap.Any("userIDValue", userIDValue))
		return 0, false
	}
	return userID, true
}

// 路径中的帖子ID, 非数字视为不存在
func getPostIDFromParam(c *gin.Context) (uint, bool) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil || postID == 0 {
		notFound(c)
		return 0, false
	}
	return uint(postID), true
}

func pageParam(c *gin.Context) int {
	return pagination.ParseNumber(c.Query("page"))
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "page not found",
		"path":  c.Request.URL.Path,
	})
}

// 统一的错误响应
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		notFound(c)
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	default:
		_ = c.Error(err)
		logger.L.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func postURL(postID uint) string {
	return fmt.Sprintf("/posts/%d/", postID)
}
