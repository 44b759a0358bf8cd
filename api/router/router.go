package router

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cost-navigator/api/handler"
)

func RegisterRoutes(r *gin.Engine, navH *handler.NavigatorHandler) {
	r.Use(requestID())

	r.GET("/", navH.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/providers", navH.Providers)
		api.POST("/ask", navH.Ask)
	}
}

// requestID tags every request so log lines and responses correlate.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}
