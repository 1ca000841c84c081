package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AntonEmtsov/foodgram-project-react/internal/http/response"
	"github.com/AntonEmtsov/foodgram-project-react/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, tags)
}

// GET /api/tags/:id
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, tag)
}

// GET /api/ingredients?name=<prefix>
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	found, err := h.catalog.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, found)
}

// GET /api/ingredients/:id
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ing, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, ing)
}
