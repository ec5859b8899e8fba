package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/plexflix/plexflix/internal/config"
)

// NewEngine builds the gin engine with middleware and the health endpoint,
// then registers all provided services.
func NewEngine(registrars ...Registrar) *gin.Engine {
	e := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	e.Use(cors.New(corsCfg))

	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// register all services
	for _, r := range registrars {
		r.Register(e)
	}

	return e
}

// StartHTTPServer boots the HTTP server and registers all provided services
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	e := NewEngine(registrars...)
	return e.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port)
}
