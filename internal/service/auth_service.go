package service

import (
	"context"
	"errors"
	"strings"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/pkg/logger"
	"yatube/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 处理认证相关业务逻辑
type AuthService struct {
	userRepo *repository.UserRepository
}

// 创建一个新的认证服务实例
func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// 用户注册请求
type RegisterRequest struct {
	Username  string `form:"username" json:"username" binding:"required,min=3,max=150"`
	Password  string `form:"password" json:"password" binding:"required,min=8"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
}

// 用户登陆请求
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

var errInvalidCredentials = errors.New("invalid username or password")

// 注册新用户
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	verr := &ValidationError{}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		verr.Add("username", msgRequired)
	} else if len(req.Username) > usernameMaxLength || !usernamePattern.MatchString(req.Username) {
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if len(req.Password) < 8 {
		verr.Add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	// 检查用户名是否已存在
	existingUser, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		verr.Add("username", "A user with that username already exists.")
	}

	// 检查邮箱是否已存在
	if req.Email != "" {
		existingEmail, err := s.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existingEmail != nil {
			verr.Add("email", "A user with that email already exists.")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 创建用户
	user := &model.User{
		Username:  req.Username,
		Password:  string(hashedPassword),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.L.Info("User registered", zap.Uint("userID", user.ID), zap.String("username", user.Username))
	return user, nil
}

// 用户登陆
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *model.User, error) {
	// 查找用户
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, errInvalidCredentials
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	// 生成JWT令牌
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// 授予或撤销管理员权限
func (s *AuthService) SetStaff(ctx context.Context, username string, staff bool) error {
	found, err := s.userRepo.SetStaff(ctx, username, staff)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, errInvalidCredentials)
}
