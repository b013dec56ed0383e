package api

import (
	"time"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// 路由所需的依赖
type Dependencies struct {
	Config   config.Config
	UserRepo *repository.UserRepository
	Auth     *service.AuthService
	Feed     *service.FeedService
	Posts    *service.PostService
	Follows  *service.FollowService
	Groups   *service.GroupService
	Images   storage.ImageStore
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// 创建Gin引擎并注册所有路由
func NewRouter(deps Dependencies) *gin.Engine {
	registerFormTagNames()

	r := gin.New()
	r.MaxMultipartMemory = deps.Config.Storage.MaxImageSize
	r.Use(
		middleware.RequestID(),
		middleware.GinZapLogger(),
		gin.Recovery(),
		corsMiddleware(deps.Config.Server.AllowOrigins),
		middleware.Authenticate(deps.UserRepo, deps.Config.JWT.CookieName),
	)

	feedHandler := NewFeedHandler(deps.Feed, deps.Images)
	postHandler := NewPostHandler(deps.Posts, deps.Groups)
	followHandler := NewFollowHandler(deps.Follows)
	authHandler := NewAuthHandler(deps.Auth, deps.Config.JWT)
	adminHandler := NewAdminHandler(deps.Groups)

	// 公开路由
	r.GET("/", feedHandler.Index)
	r.GET("/group/:slug/", feedHandler.GroupPosts)
	r.GET("/profile/:username/", feedHandler.Profile)
	r.GET("/posts/:post_id/", feedHandler.PostDetail)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup/", authHandler.Signup)
		authGroup.POST("/login/", authHandler.Login)
		authGroup.GET("/logout/", authHandler.Logout)
	}

	aboutGroup := r.Group("/about")
	{
		aboutGroup.GET("/author/", AboutAuthor)
		aboutGroup.GET("/tech/", AboutTech)
	}

	if local, ok := deps.Images.(*storage.Local); ok {
		r.Static("/media", local.Root())
	}

	// 需要登录的路由
	protected := r.Group("/", middleware.RequireAuth(deps.Config.Server.LoginURL))
	{
		protected.GET("/create/", postHandler.CreateForm)
		protected.POST("/create/", postHandler.Create)
		protected.GET("/posts/:post_id/edit/", postHandler.EditForm)
		protected.POST("/posts/:post_id/edit/", postHandler.Edit)
		protected.POST("/posts/:post_id/comment/", postHandler.AddComment)
		protected.GET("/follow/", feedHandler.FollowIndex)
		protected.GET("/profile/:username/follow/", followHandler.Follow)
		protected.GET("/profile/:username/unfollow/", followHandler.Unfollow)
	}

	admin := r.Group("/admin", middleware.RequireAuth(deps.Config.Server.LoginURL), middleware.RequireStaff())
	{
		admin.GET("/groups/", adminHandler.ListGroups)
		admin.POST("/groups/", adminHandler.CreateGroup)
		admin.DELETE("/groups/:slug/", adminHandler.DeleteGroup)
	}

	r.NoRoute(notFound)

	return r
}
