package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pressfold/blogaug/internal/store"
)

// Handler exposes the stored articles read-only. It is a thin wrapper over
// the store; readers always see an article, original or rewritten, and never
// an error state from the pipeline.
type Handler struct {
	Store store.Store
}

// Register mounts the read routes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api/articles", h.listArticles)
}

// listArticles returns every stored article, newest first.
func (h *Handler) listArticles(c echo.Context) error {
	articles, err := h.Store.List(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("list articles failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch articles")
	}
	if articles == nil {
		articles = []store.Article{}
	}
	return c.JSON(http.StatusOK, articles)
}
