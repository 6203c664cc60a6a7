package router

import (
	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/config"
	"github.com/obaplab/obap-backend/internal/app/controller"
	"github.com/obaplab/obap-backend/internal/middleware"
)

type Router struct {
	authController            *controller.AuthController
	restaurantController      *controller.RestaurantController
	menuController            *controller.MenuController
	locationRequestController *controller.LocationRequestController
	notificationController    *controller.NotificationController
	placeController           *controller.PlaceController
	uploadController          *controller.UploadController
	authMiddleware            *middleware.AuthMiddleware
	config                    *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	restaurantController *controller.RestaurantController,
	menuController *controller.MenuController,
	locationRequestController *controller.LocationRequestController,
	notificationController *controller.NotificationController,
	placeController *controller.PlaceController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:            authController,
		restaurantController:      restaurantController,
		menuController:            menuController,
		locationRequestController: locationRequestController,
		notificationController:    notificationController,
		placeController:           placeController,
		uploadController:          uploadController,
		authMiddleware:            authMiddleware,
		config:                    cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "O!BAP API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// 회원가입 화면에서 쓰는 중복 확인. /auth 아래에도 같은 핸들러를 건다
		v1.GET("/check-email", r.authController.CheckEmail)
		v1.GET("/check-username", r.authController.CheckUsername)
		v1.GET("/check-nickname", r.authController.CheckNickname)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/check-email", r.authController.CheckEmail)
			auth.GET("/check-username", r.authController.CheckUsername)
			auth.GET("/check-nickname", r.authController.CheckNickname)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		restaurants := v1.Group("/restaurants")
		{
			restaurants.GET("", r.restaurantController.ListRestaurants)
			restaurants.GET("/:id", r.restaurantController.GetRestaurant)
			restaurants.GET("/:id/menus", r.menuController.ListMenus)

			restaurants.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("employee", "admin"),
				r.restaurantController.CreateRestaurant,
			)
			restaurants.PATCH("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("employee", "admin"),
				r.restaurantController.UpdateRestaurant,
			)
			restaurants.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("employee", "admin"),
				r.restaurantController.DeleteRestaurant,
			)
			restaurants.POST("/:id/menus",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.menuController.CreateMenu,
			)
		}

		menus := v1.Group("/menus")
		{
			menus.GET("", r.menuController.ListMenus)
			menus.GET("/:id", r.menuController.GetMenu)

			menus.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.menuController.CreateMenu,
			)
			menus.PATCH("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.menuController.UpdateMenu,
			)
			menus.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.menuController.DeleteMenu,
			)
		}

		locationRequests := v1.Group("/company-location-requests")
		locationRequests.Use(r.authMiddleware.Authenticate())
		{
			locationRequests.POST("", r.locationRequestController.Submit)
			locationRequests.GET("", r.locationRequestController.List)
			locationRequests.GET("/:id", r.locationRequestController.GetRequest)

			locationRequests.POST("/:id/approve",
				r.authMiddleware.RequireRole("admin"),
				r.locationRequestController.Approve,
			)
			locationRequests.POST("/:id/reject",
				r.authMiddleware.RequireRole("admin"),
				r.locationRequestController.Reject,
			)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PATCH("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		places := v1.Group("/places")
		{
			places.GET("/search", r.placeController.SearchPlaces)
			places.GET("/local", r.placeController.SearchLocal)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/places/ingest", r.placeController.IngestPlaces)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
