package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack.com/jobtrack/web/common"
	"jobtrack.com/jobtrack/web/handlers/timecards"
	"jobtrack.com/jobtrack/web/middlewares"
)

func newRouter(jwtSecret []byte, base common.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		protected.GET("/whoami", func(c *gin.Context) {
			c.JSON(http.StatusOK, common.NewSuccessResponse(middlewares.Claims(c).Identity))
		})
		timecards.Register(protected, base)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("route not found"))
	})
	return r
}
