package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/openrecipes/ingredient-panel/internal/usecase"
	"github.com/openrecipes/ingredient-panel/internal/view"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searcher domain.IngredientSearcher
}

// NewHandler creates a new HTTP handler
func NewHandler(searcher domain.IngredientSearcher) *Handler {
	return &Handler{searcher: searcher}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ingredient-panel",
		"version": "1.0.0",
	})
}

// loadPanel mounts a fresh panel for this request and waits for it to settle
func (h *Handler) loadPanel(c *gin.Context) domain.ViewState {
	panel := usecase.NewPanel(h.searcher)
	defer panel.Unmount()
	return panel.LoadIngredients(c.Request.Context())
}

// Page renders the ingredient panel as HTML. A failed load is still a 200:
// the failure is shown inline.
func (h *Handler) Page(c *gin.Context) {
	state := h.loadPanel(c)

	var buf bytes.Buffer
	if err := view.RenderHTML(&buf, state); err != nil {
		log.Error().Err(err).Msg("failed to render panel")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// PanelState returns the settled panel state as JSON
func (h *Handler) PanelState(c *gin.Context) {
	state := h.loadPanel(c)
	c.JSON(http.StatusOK, gin.H{
		"phase":       state.Phase().String(),
		"loading":     state.Loading,
		"error":       state.Error,
		"ingredients": state.Ingredients,
	})
}

// ExportWorkbook returns the panel's ingredients as an xlsx download
func (h *Handler) ExportWorkbook(c *gin.Context) {
	state := h.loadPanel(c)

	var buf bytes.Buffer
	if err := view.WriteWorkbook(&buf, state); err != nil {
		log.Error().Err(err).Msg("failed to build workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ingredients.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
