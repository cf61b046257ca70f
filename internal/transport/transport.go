package transport

import (
	"time"

	"github.com/ds124wfegd/avatar-fix/internal/transport/middleware"
	"github.com/ds124wfegd/avatar-fix/internal/web"
	"github.com/gin-gonic/gin"
)

func InitRoutes(avatarHandler *AvatarHandler, sessionTTL time.Duration, timeoutSeconds int) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.SetHTMLTemplate(web.Templates())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "avatar-fix",
		})
	})

	screen := router.Group("/")
	screen.Use(Session(sessionTTL))
	screen.Use(middleware.Timeout(timeoutSeconds))
	{
		screen.GET("/", avatarHandler.Index)
		screen.POST("/upload", avatarHandler.UploadImage)
		screen.GET("/state", avatarHandler.GetState)
		screen.GET("/download", avatarHandler.Download)
	}

	return router
}
