package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmirror/inventory-service/internal/catalog"
)

// TagsHandler serves the remote tag list used for vendor selection.
type TagsHandler struct {
	client *catalog.Client
}

// NewTagsHandler creates a tags handler.
func NewTagsHandler(client *catalog.Client) *TagsHandler {
	return &TagsHandler{client: client}
}

// ListTagsResponse represents the response for listing vendor tags
type ListTagsResponse struct {
	Tags []catalog.Tag `json:"tags" jsonschema:"required"`
}

// ListTags returns the remote tag list
// @Summary List vendor tags
// @Description Returns the remote catalog's tags. Served from a short-lived cache; a remote failure yields an empty list rather than an error.
// @Tags tags
// @Accept json
// @Produce json
// @Success 200 {object} ListTagsResponse
// @Router /internal/tags [get]
func (h *TagsHandler) ListTags(c *gin.Context) {
	tags := h.client.FetchTags(c.Request.Context())
	if tags == nil {
		tags = []catalog.Tag{}
	}

	c.JSON(http.StatusOK, ListTagsResponse{Tags: tags})
}
