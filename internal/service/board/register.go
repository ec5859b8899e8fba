package board

import (
	"github.com/gin-gonic/gin"

	"github.com/plexflix/plexflix/internal/app"
)

// Registrar ties the board service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the board service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the board routes to the engine
func (r *Registrar) Register(e *gin.Engine) {
	service := NewService(r.appCtx)

	api := e.Group("/api")
	{
		api.POST("/register", service.Register)
		api.POST("/login", service.Login)
		api.POST("/logout", service.Logout)
		api.GET("/me", service.Me)

		api.GET("/suggestions", service.ListSuggestions)
		api.POST("/suggestions", service.AddSuggestion)
		api.DELETE("/suggestions/:id", service.RemoveSuggestion)
		api.POST("/suggestions/:id/vote", service.Vote)
		api.POST("/suggestions/:id/rating", service.Rate)

		api.GET("/search", service.SearchCatalog)
		api.PUT("/search/query", service.TypeQuery)
		api.PUT("/search/filters", service.SetSearchFilters)
		api.GET("/search/results", service.SearchResults)

		api.GET("/genres", service.Genres)
		api.GET("/trending", service.Trending)
	}
}
