package router

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/event-reminder/internal/api/handlers/event"
)

func New(handler *event.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	metrics := promhttp.Handler()
	e.GET("/metrics", func(c *ginext.Context) {
		metrics.ServeHTTP(c.Writer, c.Request)
	})

	api := e.Group("/api")
	{
		api.POST("/events", handler.Create)
		api.GET("/events", handler.List)
		api.GET("/events/:id", handler.Get)
		api.DELETE("/events/:id", handler.Remove)
		api.GET("/reminders/:handle", handler.GetReminder)
	}

	return e
}
