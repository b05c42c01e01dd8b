package router

import (
	"github.com/Tengorio/12pavos/internal/handler"
	"github.com/Tengorio/12pavos/internal/middleware"
	"github.com/Tengorio/12pavos/internal/pkg"
	"github.com/Tengorio/12pavos/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, smtpCfg pkg.SMTPConfig) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(service.NewUserService(db))
	wish := handler.NewWishHandler(service.NewWishService(db, smtpCfg))
	potluck := handler.NewPotluckHandler(service.NewPotluckService(db))
	availability := handler.NewAvailabilityHandler(service.NewAvailabilityService(db))

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", user.Logout)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 心愿/礼物交换接口
	wishGroup := r.Group("/api/wish")
	wishGroup.Use(middleware.AuthMiddleware())
	{
		wishGroup.POST("/create", wish.Create)
		wishGroup.GET("/mine", wish.Mine)
		wishGroup.GET("/market", wish.Market)
		wishGroup.POST("/claim/:id", wish.Claim)
		wishGroup.POST("/release/:id", wish.Release)
		wishGroup.GET("/claims", wish.Claims)
	}

	// potluck 报菜接口
	potluckGroup := r.Group("/api/potluck")
	potluckGroup.Use(middleware.AuthMiddleware())
	{
		potluckGroup.POST("/save", potluck.Save)
		potluckGroup.GET("/mine", potluck.Mine)
		potluckGroup.GET("/list", potluck.List)
		potluckGroup.POST("/auto-assign", potluck.AutoAssign)
	}

	// 可参加日期接口
	availabilityGroup := r.Group("/api/availability")
	availabilityGroup.Use(middleware.AuthMiddleware())
	{
		availabilityGroup.POST("/add", availability.AddDate)
		availabilityGroup.POST("/remove", availability.RemoveDate)
		availabilityGroup.GET("/mine", availability.Mine)
		availabilityGroup.GET("/summary", availability.Summary)
	}

	return r
}
